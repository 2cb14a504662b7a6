package books

// ===== Requests =====

type CreateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	Isbn   string `json:"isbn" binding:"required"`
}

// isbn は作成後に変更できない
type UpdateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

// ===== Responses =====

type BookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Isbn   string `json:"isbn"`
}

func ToResponse(b Book) BookResponse {
	return BookResponse{ID: b.ID, Title: b.Title, Author: b.Author, Isbn: b.Isbn}
}

type ImportResult struct {
	Total   int               `json:"total"`
	OkCount int               `json:"ok_count"`
	NgCount int               `json:"ng_count"`
	Results []ImportRowResult `json:"results"`
}

type ImportRowResult struct {
	Row    int     `json:"row"` // 1-based, ヘッダ行を除いたデータ行番号
	Ok     bool    `json:"ok"`
	Error  *string `json:"error,omitempty"`
	BookID *int64  `json:"book_id,omitempty"`
	Isbn   string  `json:"isbn"`
}
