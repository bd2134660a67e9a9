package usecase

type CredentialHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID, role string) (string, error)
	Verify(token string) (userID string, role string, err error)
}
