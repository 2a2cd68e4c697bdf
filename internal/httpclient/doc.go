// Package httpclient is the HTTP execution engine behind a sweep.
//
// [NewRequestBuilder] fixes the method (upper-cased) and target URL (verbatim)
// for every request. [Requester] issues one request and fully drains the
// response so connections return to the pool. [Engine] runs a trial by
// driving a [runner.Runner] with the requested in-flight window:
//
//	client := httpclient.NewClient(cfg.Timeout, 200)
//	builder, _ := httpclient.NewRequestBuilder(cfg)
//	engine := &httpclient.Engine{Requester: httpclient.NewRequester(client, builder)}
//	err := engine.Execute(ctx, 20, 500)
//
// Response status does not affect pacing; a failed request frees its slot
// exactly like a successful one.
package httpclient
