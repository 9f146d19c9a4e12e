package github

// App encapsulates the details of the GitHub App the bridge authenticates as
// when exchanging installation IDs for installation tokens.
type App struct {
	// AppID specifies the ID of the GitHub App.
	AppID int64
	// APIKey is the ASCII-armored private key for the GitHub App.
	APIKey []byte
}

// Configured returns true when both the App ID and its private key are known.
// A bridge without a configured App can still serve installations for which a
// user supplied a personal access token.
func (a App) Configured() bool {
	return a.AppID != 0 && len(a.APIKey) > 0
}
