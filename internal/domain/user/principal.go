package user

// Principal is the authenticated caller. PlayerID is the fantasy player the
// caller acts as; operators may run back-office operations.
type Principal struct {
	UserID     string
	Email      string
	Roles      []string
	IsOperator bool
}

func (p Principal) PlayerID() string {
	return p.UserID
}
