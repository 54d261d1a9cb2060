package domain

// CategoryCount is the number of products in one category
type CategoryCount struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int64  `json:"count"`
}

// RecentUser is a trimmed user row for the dashboard
type RecentUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt string     `json:"createdAt"`
}

// DashboardStats aggregates catalogue and user counts
type DashboardStats struct {
	TotalUsers          int64                `json:"totalUsers"`
	UsersByStatus       map[UserStatus]int64 `json:"usersByStatus"`
	TotalProducts       int64                `json:"totalProducts"`
	PublishedProducts   int64                `json:"publishedProducts"`
	TotalCategories     int64                `json:"totalCategories"`
	LowStockProducts    int64                `json:"lowStockProducts"`
	LowStockThreshold   int                  `json:"lowStockThreshold"`
	ProductsPerCategory []CategoryCount      `json:"productsPerCategory"`
	RecentUsers         []RecentUser         `json:"recentUsers"`
}
