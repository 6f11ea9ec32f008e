// Package traceapi is the HTTP twin of the engines.
//
// # Routes
//
//   - POST /sort/:algorithm     run a sort, return the milestone history
//   - GET  /sort/algorithms     list the sort algorithms served here
//   - POST /search/:algorithm   run a grid search
//   - POST /maze                generate a maze and solve it
//   - GET  /stream/sort/:algorithm  websocket stream of a paced sort run
//   - GET  /runs                recent runs from the journal
//   - GET  /metrics             Prometheus exposition
//
// Every error body uses the envelope {"status":"error","reason":"..."}.
// An unknown algorithm is reported with HTTP 200 and the reason
// "Invalid algorithm type."; an unknown route with 404 and
// "Resource was not found.".
package traceapi
