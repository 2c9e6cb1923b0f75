package browse

// PageSize es fijo; el número de página es la única fuente de verdad del offset.
const PageSize = 12

// Offset = (page-1) * PageSize.
func Offset(page int) int {
	return (page - 1) * PageSize
}

// TotalPages = ceil(total / PageSize). total <= 0 => 0.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}
