package dto

// ApplicationCreateRequest is the descriptor for registering a client
// application.
type ApplicationCreateRequest struct {
	ClientID               string   `json:"client_id"`
	ClientSecret           string   `json:"client_secret,omitempty"`
	DisplayName            string   `json:"display_name"`
	ConsentType            string   `json:"consent_type"`
	Type                   string   `json:"type"` // "confidential" | "public"
	Scopes                 []string `json:"scopes,omitempty"`
	GrantTypes             []string `json:"grant_types,omitempty"`
	RedirectURIs           []string `json:"redirect_uris,omitempty"`
	PostLogoutRedirectURIs []string `json:"post_logout_redirect_uris,omitempty"`
}

// ApplicationUpdateRequest replaces the stored application fields.
// A nil RedirectURIs clears the stored list; absent means cleared.
type ApplicationUpdateRequest struct {
	ClientID     string   `json:"client_id"`
	DisplayName  string   `json:"display_name"`
	ConsentType  string   `json:"consent_type"`
	Type         string   `json:"type"`
	RedirectURIs []string `json:"redirect_uris"`
}

// ApplicationResponse is the read model for a client application.
type ApplicationResponse struct {
	ClientID               string   `json:"client_id"`
	DisplayName            string   `json:"display_name"`
	ConsentType            string   `json:"consent_type"`
	Type                   string   `json:"type"`
	Permissions            []string `json:"permissions"`
	RedirectURIs           []string `json:"redirect_uris,omitempty"`
	PostLogoutRedirectURIs []string `json:"post_logout_redirect_uris,omitempty"`
}
