package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FleetLinkRent/FleetLinkRent/internal/rental"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// vehicleJSON 车辆的对外表示。金额渲染成两位小数字符串。
type vehicleJSON struct {
	ID              string `json:"id"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	Year            int    `json:"year"`
	Color           string `json:"color"`
	Capacity        int    `json:"capacity"`
	PricePerDay     string `json:"pricePerDay"`
	Type            string `json:"type"`
	Available       bool   `json:"available"`
	CurrentRenterID string `json:"currentRenterId,omitempty"`
}

func toVehicleJSON(v vehicle.Vehicle) vehicleJSON {
	return vehicleJSON{
		ID:              v.ID,
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
		Color:           v.Color,
		Capacity:        v.Capacity,
		PricePerDay:     rental.FormatCents(v.DailyPriceCents),
		Type:            v.Type,
		Available:       v.Available,
		CurrentRenterID: v.CurrentRenterID,
	}
}

func toVehicleListJSON(vs []vehicle.Vehicle) []vehicleJSON {
	out := make([]vehicleJSON, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVehicleJSON(v))
	}
	return out
}

// userJSON 用户的对外表示。
type userJSON struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNum"`
}

func toUserJSON(u user.User) userJSON {
	return userJSON{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError 把核心错误映射成 HTTP 状态码 + 稳定错误码。
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, rental.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rental.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, rental.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, rental.ErrStoreFailure):
		status = http.StatusBadGateway
	}

	var body errorBody
	body.Error.Code = rental.ErrorCode(err)
	body.Error.Message = err.Error()
	writeJSON(w, status, body)
}
