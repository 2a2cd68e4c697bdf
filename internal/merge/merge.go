package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGlob    = "*ruby*.json"
	DefaultPattern = `(j?ruby)-sleep-(\d+)`
)

// Options configure file discovery and scenario extraction.
type Options struct {
	Dir     string
	Glob    string
	Pattern *regexp.Regexp // group 1 is the executable, group 2 the delay in ms
	Logger  *zap.Logger
}

func (o *Options) normalize() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Glob == "" {
		o.Glob = DefaultGlob
	}
	if o.Pattern == nil {
		o.Pattern = regexp.MustCompile(DefaultPattern)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// CompilePattern compiles a filename pattern and checks it has the two
// capture groups the merge needs.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	if re.NumSubexp() < 2 {
		return nil, fmt.Errorf("pattern %q needs two capture groups (executable, delay)", expr)
	}
	return re, nil
}

// Discover lists files in dir matching glob, sorted by name.
func Discover(dir, glob string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", glob, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ParseName extracts the executable and delay from a file name.
func ParseName(re *regexp.Regexp, name string) (executable string, delayMs int, ok bool) {
	m := re.FindStringSubmatch(filepath.Base(name))
	if m == nil || len(m) < 3 {
		return "", 0, false
	}
	delay, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], delay, true
}

// Annotate adds the scenario fields to every record.
func Annotate(records []Record, executable string, delayMs int) {
	exec, _ := json.Marshal(executable)
	params, _ := json.Marshal(fmt.Sprintf("%s, response delay %d ms", executable, delayMs))
	for i := range records {
		records[i].Set("executable", string(exec))
		records[i].Set("delay_ms", strconv.Itoa(delayMs))
		records[i].Set("parameters", string(params))
	}
}

var errNameMismatch = errors.New("file name does not match pattern")

// Merge reads every discovered file and returns the annotated records,
// flattened in file order. Unreadable, malformed or unmatched files are
// skipped.
func Merge(opts Options) ([]Record, error) {
	opts.normalize()

	files, err := Discover(opts.Dir, opts.Glob)
	if err != nil {
		return nil, err
	}

	all := []Record{}
	for _, path := range files {
		records, err := loadFile(opts.Pattern, path)
		if err != nil {
			opts.Logger.Debug("skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		opts.Logger.Debug("merged file", zap.String("file", path), zap.Int("records", len(records)))
		all = append(all, records...)
	}
	return all, nil
}

func loadFile(re *regexp.Regexp, path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := ParseRecords(data)
	if err != nil {
		return nil, err
	}
	exec, delay, ok := ParseName(re, path)
	if !ok {
		return nil, errNameMismatch
	}
	Annotate(records, exec, delay)
	return records, nil
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// WriteYAML writes records as a YAML sequence.
func WriteYAML(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
