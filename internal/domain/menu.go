package domain

type MenuItem struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Price       Money
	Vegetarian  bool
	Available   bool
}
