package model

const RoleCustomer = "CUSTOMER"

type User struct {
	BaseModel
	Email     string  `db:"email" json:"email"`
	Name      string  `db:"name" json:"name"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Phone     *string `db:"phone" json:"phone"`
	Address   *string `db:"address" json:"address"`
	Role      string  `db:"role" json:"role"`
}
