// Package merge combines sweep result files from several server scenarios.
//
// Each input is a JSON array of report entries. The scenario is encoded in the
// file name, for example "jruby-sleep-50.json", and is matched against a
// pattern whose first group names the executable and whose second group is
// the response delay in milliseconds. Every entry gains executable, delay_ms
// and parameters fields, and the entries of all files are concatenated.
//
// Files that cannot be read, are not arrays of objects, or whose names do not
// match are skipped without failing the merge.
package merge
