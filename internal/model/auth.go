package model

type AuthClient struct {
	ClientID     string `json:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

type TokenOwner struct {
	LoginID string `json:"loginId"`
}

type AuthToken struct {
	TokenID      string     `json:"tokenId"`
	Description  string     `json:"description"`
	CreationTime string     `json:"creationTime"`
	Owner        TokenOwner `json:"owner"`
}

type AuthTokens struct {
	Tokens []AuthToken `json:"tokens"`
}

type TokenExchange struct {
	JWT          string `json:"jwt"`
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	ID      string `json:"id,omitempty"`
	LoginID string `json:"loginId"`
}
