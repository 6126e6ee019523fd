package db

type Cookie struct {
	Name  string
	Value string
}
