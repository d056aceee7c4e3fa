package constant

type contextKey string

const (
	AdminKey    contextKey = "admin"
	ClientIDKey contextKey = "client_id"
)
