package orders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/ArdhiYetu/AY-Backend/internal/plots"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// CreateOrderHandler places an order against an available plot. The order row
// and the plot's flip to pending commit together; a failed insert must not
// leave the plot reserved.
func CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	plotID := chi.URLParam(r, "plotID")
	if _, err := uuid.Parse(plotID); err != nil {
		http.Error(w, "Plot not found", http.StatusNotFound)
		return
	}

	var input OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var order PlotOrder
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var plot plots.LandPlot
		if err := tx.First(&plot, "id = ?", plotID).Error; err != nil {
			return err
		}
		if plot.Status != plots.StatusAvailable {
			return &plotUnavailableError{status: plot.Status}
		}

		order = PlotOrder{
			ID:               uuid.New(),
			PlotID:           plot.ID,
			CustomerName:     input.CustomerName,
			CustomerPhone:    input.CustomerPhone,
			CustomerEmail:    input.CustomerEmail,
			CustomerIDNumber: input.CustomerIDNumber,
			IntendedUse:      input.IntendedUse,
			Notes:            input.Notes,
			Status:           StatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Model(&plot).Update("status", plots.StatusPending).Error
	})

	var unavailable *plotUnavailableError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, order)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Plot not found", http.StatusNotFound)
	case errors.As(err, &unavailable):
		http.Error(w, unavailable.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		log.Printf("create order for plot %s: %v", plotID, err)
	}
}

type plotUnavailableError struct {
	status string
}

func (e *plotUnavailableError) Error() string {
	return "Plot is not available for ordering. Current status: " + e.status
}

type orderListResponse struct {
	Orders []OrderWithPlot `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ListOrdersHandler returns orders joined with their plot code, filtered by
// status and plot_id, paginated with limit/offset plus a total count.
func ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 100
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		limit = n
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "offset must be non-negative", http.StatusBadRequest)
			return
		}
		offset = n
	}

	var conditions []string
	var args []interface{}
	if s := q.Get("status"); s != "" {
		conditions = append(conditions, "po.status = ?")
		args = append(args, s)
	}
	if p := q.Get("plot_id"); p != "" {
		conditions = append(conditions, "po.plot_id = ?")
		args = append(args, p)
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := db.DB.Raw(`
		SELECT COUNT(*)
		FROM plot_orders po
		JOIN land_plots lp ON po.plot_id = lp.id
		`+where, args...).Scan(&total).Error; err != nil {
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		log.Printf("count orders: %v", err)
		return
	}

	rows, err := db.DB.Raw(`
		SELECT
			po.id::text,
			po.plot_id::text,
			lp.plot_code,
			po.customer_name,
			po.customer_phone,
			COALESCE(po.customer_email, ''),
			po.customer_id_number,
			po.intended_use,
			COALESCE(po.notes, ''),
			po.status,
			po.created_at,
			po.updated_at
		FROM plot_orders po
		JOIN land_plots lp ON po.plot_id = lp.id
		`+where+`
		ORDER BY po.created_at DESC
		LIMIT ? OFFSET ?`, append(args, limit, offset)...).Rows()
	if err != nil {
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		log.Printf("list orders: %v", err)
		return
	}
	defer rows.Close()

	list := []OrderWithPlot{}
	for rows.Next() {
		var o OrderWithPlot
		if err := rows.Scan(
			&o.ID, &o.PlotID, &o.PlotCode,
			&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.CustomerIDNumber,
			&o.IntendedUse, &o.Notes, &o.Status,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
			log.Printf("scan order: %v", err)
			return
		}
		o.CreatedAt = o.CreatedAt.UTC()
		o.UpdatedAt = o.UpdatedAt.UTC()
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		log.Printf("iterate orders: %v", err)
		return
	}

	writeJSON(w, orderListResponse{Orders: list, Total: total, Limit: limit, Offset: offset})
}

type statusUpdateInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatusHandler is the admin review action. Approving an order
// takes the plot; rejecting one frees the plot unless another pending order
// still references it.
func UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if _, err := uuid.Parse(orderID); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	var input statusUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !ValidStatus(input.Status) {
		http.Error(w, "status must be one of: pending, approved, rejected", http.StatusBadRequest)
		return
	}

	var order PlotOrder
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}

		oldStatus := order.Status
		if err := tx.Model(&order).Update("status", input.Status).Error; err != nil {
			return err
		}

		var plot plots.LandPlot
		if err := tx.First(&plot, "id = ?", order.PlotID).Error; err != nil {
			return err
		}

		switch input.Status {
		case StatusApproved:
			if err := tx.Model(&plot).Update("status", plots.StatusTaken).Error; err != nil {
				return err
			}
		case StatusRejected:
			var otherPending int64
			if err := tx.Model(&PlotOrder{}).
				Where("plot_id = ? AND id <> ? AND status = ?", order.PlotID, order.ID, StatusPending).
				Count(&otherPending).Error; err != nil {
				return err
			}
			if otherPending == 0 {
				if err := tx.Model(&plot).Update("status", plots.StatusAvailable).Error; err != nil {
					return err
				}
			}
		}

		log.Printf("order %s status updated from %s to %s", orderID, oldStatus, input.Status)
		return nil
	})

	switch {
	case err == nil:
		writeJSON(w, map[string]any{
			"id":          order.ID,
			"status":      order.Status,
			"updated_at":  order.UpdatedAt.UTC().Format(time.RFC3339),
			"admin_notes": input.Notes,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
	default:
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		log.Printf("update order %s: %v", orderID, err)
	}
}
