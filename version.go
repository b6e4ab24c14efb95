package storefront

// Version information for the storefront SDK
const (
	// Version is the current SDK version
	Version = "development"

	// APIVersion is the backend REST contract the SDK speaks
	APIVersion = "v1"

	// BuildDate is set during build time
	BuildDate = "development"

	// GitCommit is set during build time
	GitCommit = "unknown"
)

// UserAgent is sent with every backend request.
func UserAgent() string {
	return "storefront-go/" + Version
}
