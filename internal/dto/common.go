package dto

// PageRequest defines the common query parameters for token-paginated listings.
type PageRequest struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}
