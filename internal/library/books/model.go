package books

// Book は book テーブルの1行を表す
type Book struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
	Isbn   string `db:"isbn"`
}

// 一覧検索の条件。空のフィールドは条件に含めない（部分一致・大文字小文字無視）
type BookFilter struct {
	Title  string
	Author string
	Isbn   string
}

// CSV取り込みの1行
type ImportRow struct {
	Title  string
	Author string
	Isbn   string
}
