package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder squirrel builder с плейсхолдерами $1, $2, ... для PostgreSQL
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select возвращает SELECT builder с PostgreSQL плейсхолдерами
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert возвращает INSERT builder с PostgreSQL плейсхолдерами
func Insert(into string) squirrel.InsertBuilder {
	return builder.Insert(into)
}

// Update возвращает UPDATE builder с PostgreSQL плейсхолдерами
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete возвращает DELETE builder с PostgreSQL плейсхолдерами
func Delete(from string) squirrel.DeleteBuilder {
	return builder.Delete(from)
}
