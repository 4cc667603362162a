/*
Package server implements msgpack IPC for pattern mapping lookups.

The server reads a stream of msgpack encoded requests from stdin and writes one
msgpack encoded response per request to stdout. Requests are handled one at a
time, in order, and every response carries the ID of its request.

# IPC

Once the tables are loaded the server announces itself:

	{"id": "", "status": "ready"}

Lookups map a literal word through a named table. "d" selects the direction:
"v" (default) maps a key to its value, "k" maps a value back to its key.
"x" optionally names an output transform such as "upper" or "capitalize":

	{"id": "req_001", "t": "plural", "q": "ferry"}
	{"id": "req_001", "r": "ferries", "ok": true, "us": 4}

	{"id": "req_002", "t": "plural", "d": "k", "q": "buses", "x": "upper"}
	{"id": "req_002", "r": "BUS", "ok": true, "us": 3}

A query no pattern accepts is not an error, the response just has ok=false.
When "t" is omitted the configured default table is used.

Table listing and health checks use the "a" action field:

	{"id": "tbl_001", "a": "tables", "q": "plu"}
	{"id": "tbl_001", "tables": ["plural", "plural_irregular"]}

	{"id": "hc_001", "a": "health"}
	{"id": "hc_001", "status": "ok"}

Recent lookup results are kept in a bounded hot cache sized by
server.cache_size. "stats" reports its counters:

	{"id": "st_001", "a": "stats"}
	{"id": "st_001", "handled": 42, "tables": 5, "cache": {"hotCacheHits": 17, ...}}

Failed requests get an error response with an HTTP-like code:

	{"id": "req_003", "e": "unknown table: verbs", "c": 404}
*/
package server

// Actions understood by the server.
const (
	ActionLookup = "lookup"
	ActionTables = "tables"
	ActionHealth = "health"
	ActionStats  = "stats"
)

// Error codes used in ErrorResponse.
const (
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeInternal   = 500
)

// Request is a single client message
type Request struct {
	ID        string `msgpack:"id"`
	Action    string `msgpack:"a,omitempty"`
	Table     string `msgpack:"t,omitempty"`
	Direction string `msgpack:"d,omitempty"`
	Query     string `msgpack:"q"`
	Transform string `msgpack:"x,omitempty"`
}

// LookupResponse - lookup result
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Result    string `msgpack:"r"`
	Matched   bool   `msgpack:"ok"`
	TimeTaken int64  `msgpack:"us"`
}

// TablesResponse - registered table names
type TablesResponse struct {
	ID     string   `msgpack:"id"`
	Tables []string `msgpack:"tables"`
}

// StatusResponse - readiness and health
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// StatsResponse - request count and hot cache counters
type StatsResponse struct {
	ID      string         `msgpack:"id"`
	Handled int            `msgpack:"handled"`
	Tables  int            `msgpack:"tables"`
	Cache   map[string]int `msgpack:"cache"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
