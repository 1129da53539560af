// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package proxy exposes the inbound HTTP surface of the integration-platform
// ops proxy. It validates per-request credentials and toggle actions,
// translates each route into one or more authenticated upstream calls, and
// relays the reshaped JSON — mirroring the upstream status on failure.
package proxy
