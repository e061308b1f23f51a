// Package client implements the RPC client for the collection server. It
// provides the Session type, the client-side handle through which every
// command reaches the server.
//
// The package focuses on:
//   - Typed methods for every server command
//   - Tracking the authenticated login and stamping it on scoped requests
//   - Maintaining a local collection view replaced on every REFRESH response
//   - Error conversion between ERROR responses and Go errors
//
// Key Components:
//
//   - Session: The client handle. Created once per connection, safe for
//     concurrent use. Collection commands fail with ErrNotAuthenticated
//     before a successful Authenticate call.
//
//   - MessageIDExtractor: Adapts a serializer into the correlation-id hook
//     the transport layer uses to match responses to requests.
//
//   - ServerError: An ERROR response surfaced as a Go error, distinguishable
//     from transport failures.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoint:      "localhost:5000",
//	  TimeoutSecond: 5,
//	}
//
//	ser := serializer.NewSonicSerializer()
//	session, err := client.NewSession(
//	  config,
//	  tcp.NewTCPClientTransport(client.MessageIDExtractor(ser)),
//	  ser,
//	)
//	if err != nil {
//	  log.Fatalf("connect: %v", err)
//	}
//	defer session.Close()
//
//	session.Register("ada", "secret")
//	session.Authenticate("ada", "secret")
//	session.Add(&model.Person{Name: "Grace", Height: 170, Weight: 60})
//	records, _ := session.Show()
package client
