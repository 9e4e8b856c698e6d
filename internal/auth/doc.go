// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth talks to the MES authentication API.
//
// It has two layers:
//
//   - Client wraps an http.Client and builds requests. Raw requests carry no
//     credentials. Authenticated requests read the Authorization header from
//     a session.Store and fail with ErrNotLoggedIn before any network I/O if
//     the store holds no valid session.
//   - Service runs the login and logout flows on top of a Client and keeps
//     the session store in step with the server.
//
// # Error Handling
//
// Failures wrap one of three sentinels, checked with errors.Is:
//
//   - ErrNotLoggedIn: no valid session; the caller must log in again
//   - ErrTransport: connection, DNS or timeout failure
//   - ErrMalformedResponse: the body was not the expected JSON envelope
//
// Logout never fails from the caller's point of view. The local session is
// cleared whatever the server says.
//
// # Usage
//
//	store := session.NewStore()
//	client := auth.NewClient("http://127.0.0.1:8080", store).
//	    WithTimeout(10 * time.Second)
//	svc := auth.NewService(client)
//
//	resp, err := svc.Login(ctx, "admin", "123456")
//	if err != nil {
//	    return err // transport or parse failure
//	}
//	if !resp.Success {
//	    fmt.Println(resp.Message)
//	}
//
//	req, err := client.Get(ctx, "/api/orders", nil)
//	if errors.Is(err, auth.ErrNotLoggedIn) {
//	    // back to the login screen
//	}
package auth
