package main

// Credentials are held only until submission.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Form() map[string]string {
	return map[string]string{
		"username": c.Username,
		"password": c.Password,
	}
}

// BusinessProfile is built once per registration submission and sent whole.
type BusinessProfile struct {
	Username     string
	Password     string
	Email        string
	Address      string
	Zip          string
	Name         string
	WorkPhone    string
	Instructions string
}

func (p BusinessProfile) Form() map[string]string {
	return map[string]string{
		"username":     p.Username,
		"password":     p.Password,
		"email":        p.Email,
		"address":      p.Address,
		"zip":          p.Zip,
		"user_type":    string(UserTypeBusiness),
		"name":         p.Name,
		"work_phone":   p.WorkPhone,
		"instructions": p.Instructions,
	}
}
