/*
	Package endpoint serves the two RPC wire shapes understood by package rpc.

	  POST <prefix>/xhr/<method>   urlencoded form, each value is JSON
	  POST <prefix>/xd/<method>    JSON object of JSON-encoded strings, with CORS
	  GET  <prefix>/xd/            websocket carrying ws.Message envelopes

	Methods are registered on a Server, either from the exported methods of a
	receiver or as plain HandlerFuncs. A receiver method may take a
	context.Context and one argument, a struct or map that the named
	arguments are decoded into.

	Local serves a Server in-process as an rpc.Transport.
*/
package endpoint
