package domain

const DefaultItemsPerPage = 10

type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

func DefaultPagination() Pagination {
	return Pagination{
		CurrentPage:  1,
		TotalPages:   1,
		TotalItems:   0,
		ItemsPerPage: DefaultItemsPerPage,
	}
}

// PaginationFor derives a descriptor for a list paged on the client.
func PaginationFor(totalItems, itemsPerPage, currentPage int) Pagination {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := PageCount(totalItems, itemsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: itemsPerPage,
	}
}

// PageCount returns ceil(totalItems / itemsPerPage), zero for an empty list.
func PageCount(totalItems, itemsPerPage int) int {
	if itemsPerPage <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

func (p Pagination) HasPrevious() bool {
	return p.CurrentPage > 1
}
