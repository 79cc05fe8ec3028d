package dto

type ErrorResponse struct {
	Error              string `json:"error"`
	CredentialRequired bool   `json:"credentialRequired"`
}
