package models

// Stats is the aggregate snapshot shown on the admin dashboard.
// Computed on demand, never persisted.
type Stats struct {
	TotalClients    int     `json:"total_clients"`
	TotalWorkers    int     `json:"total_workers"`
	ActiveWorkers   int     `json:"active_workers"`
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	CompletedOrders int     `json:"completed_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingTasks    int     `json:"pending_tasks"`
}
