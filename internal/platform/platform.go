// Package platform holds the host platform's integration conventions as
// immutable configuration data. The generator renders them, the mutation
// engine describes them to the oracle, and the verifier checks for them, so
// they live in one place.
package platform

// Session conventions.
const (
	SessionMechanism  = "express-session"
	SessionEntryPoint = "requirePlatformSession"
)

// Database conventions.
const (
	ORMName            = "mongoose"
	SharedFieldsSymbol = "platformBaseFields"
)

// Proxy conventions.
const (
	ProxyRequestType = "IncomingMessage"
	ProxyForwardCall = "createProxyMiddleware"
)

// Required environment variables for an embedded app.
var EnvVars = []string{
	"PLATFORM_API_URL",
	"PLATFORM_SESSION_SECRET",
	"PLATFORM_MONGO_URI",
}

// RequiredPackages are merged into the app's dependency manifest by the
// generator's manifest patch.
var RequiredPackages = map[string]string{
	"express-session":       "^1.18.0",
	"http-proxy-middleware": "^3.0.0",
	"mongoose":              "^8.0.0",
	"dotenv":                "^16.4.0",
}

// Scripts are the two fixed entries appended to the patched manifest.
var Scripts = map[string]string{
	"platform:dev":   "node server.js --platform",
	"platform:start": "NODE_ENV=production node server.js --platform",
}

// ContextDocument is the static integration brief submitted to the oracle
// ahead of any app-specific material. It is not derived from the AppModel.
const ContextDocument = `You are integrating a third-party web application into a host platform.
The platform's conventions are fixed and non-negotiable:

Sessions:
- Authentication uses ` + SessionMechanism + ` backed by the platform session store.
- Protected handlers must be wrapped with the ` + SessionEntryPoint + ` middleware.
- The session secret is read from PLATFORM_SESSION_SECRET; never hardcode it.

Data model:
- Persistence uses ` + ORMName + `. Every schema must spread the shared
  ` + SharedFieldsSymbol + ` field set (platformId, createdBy, updatedAt).
- The connection string is read from PLATFORM_MONGO_URI.

Branding and navigation:
- Layout-level components must render the platform navigation bar above the
  app's own chrome and load the shared platform stylesheet.

File layout:
- Platform middleware lives under middleware/, database helpers under db/,
  branding assets under branding/.
- The app is reached through the platform proxy; it must not assume it owns
  the root path.`
