// Package common contains shared constants, sentinel errors and small helpers
// used across the dealership client packages.
package common

// DeviceIDHeaderName carries the stable device id on identity requests so the
// backend can tie trusted-device decisions to it.
const DeviceIDHeaderName = "X-Device-Id"

// ClientFamily is reported as the "browser family" of terminal clients.
const ClientFamily = "dealership-cli"

// RequestIDHeaderName correlates client log lines with backend requests.
const RequestIDHeaderName = "X-Request-Id"
