/*
	Package rpc implements a named-argument RPC client which picks its
	transport from the origin of the endpoint.

	Every argument value is JSON-encoded on its own. Calls against an
	endpoint on the same origin as the calling page are POSTed as a form to
	<BaseURL>xhr/<method>, with each value being the percent-encoded JSON
	string. Calls against a foreign origin go through a cross-domain
	transport to <BaseURL>xd/<method>, which receives the argument map as
	structured data. Either way the response body is JSON.

	Client.Go returns a Pending which resolves at most once, and invokes the
	optional callback on success. Client.Call is the blocking form.

	Transport is the pluggable part. XHRTransport and XDTransport speak plain
	HTTP; the ws subpackage provides a messaging transport for the
	cross-domain path over a websocket.
*/
package rpc
