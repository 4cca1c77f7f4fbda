package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/FleetLinkRent/FleetLinkRent/internal/rental"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// handleGetAllVehicles 返回全部车辆。和原接口保持一致：每次先整体刷新投影。
func (a *API) handleGetAllVehicles(w http.ResponseWriter, r *http.Request) {
	if err := a.inv.Reload(r.Context()); err != nil {
		writeError(w, fmt.Errorf("%w: %v", rental.ErrStoreFailure, err))
		return
	}
	writeJSON(w, http.StatusOK, toVehicleListJSON(a.inv.All()))
}

func (a *API) handleGetAllMakes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.inv.Makes())
}

func (a *API) handleGetAllModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.inv.Models())
}

func (a *API) handleGetAllColors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.inv.Colors())
}

func (a *API) handleGetAllVehicleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.inv.Types())
}

func (a *API) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	vid := strings.TrimSpace(r.URL.Query().Get("vid"))
	if vid == "" {
		writeError(w, fmt.Errorf("%w: vid required", rental.ErrValidation))
		return
	}
	v, err := a.store.GetVehicle(r.Context(), vid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleJSON(*v))
}

func (a *API) handleGetFilteredVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := vehicle.Filter{
		Make:  q.Get("make"),
		Model: q.Get("model"),
		Color: q.Get("color"),
		Type:  q.Get("type"),
	}
	if s := strings.TrimSpace(q.Get("year")); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid year %q", rental.ErrValidation, s))
			return
		}
		f.Year = &year
	}
	if s := strings.TrimSpace(q.Get("minCapacity")); s != "" {
		capacity, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid minCapacity %q", rental.ErrValidation, s))
			return
		}
		f.MinCapacity = &capacity
	}
	if s := strings.TrimSpace(q.Get("maxPrice")); s != "" {
		cents, err := rental.ParseCents(s)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid maxPrice %q", rental.ErrValidation, s))
			return
		}
		f.MaxPriceCents = &cents
	}

	if err := a.inv.Reload(r.Context()); err != nil {
		writeError(w, fmt.Errorf("%w: %v", rental.ErrStoreFailure, err))
		return
	}
	writeJSON(w, http.StatusOK, toVehicleListJSON(a.inv.Filter(f)))
}

func (a *API) handleGetTotalCost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cents, err := a.core.TotalCost(r.Context(), q.Get("vid"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"totalCost": rental.FormatCents(cents)})
}

func (a *API) handleRentVehicle(w http.ResponseWriter, r *http.Request) {
	totalCost := strings.TrimSpace(r.FormValue("totalcost"))
	cents, err := rental.ParseCents(totalCost)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid totalcost %q", rental.ErrValidation, totalCost))
		return
	}
	contact := user.Contact{
		FirstName: r.FormValue("fname"),
		LastName:  r.FormValue("lname"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phoneNum"),
	}
	txnID, err := a.core.Rent(r.Context(), r.FormValue("vid"), contact, cents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transactionId": txnID})
}

func (a *API) handleReturnVehicle(w http.ResponseWriter, r *http.Request) {
	if err := a.core.Return(r.Context(), r.FormValue("vid"), r.FormValue("userid")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"returned": true})
}

func (a *API) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	in, err := vehicleInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vid, err := a.admin.AddVehicle(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"vehicleId": vid})
}

func (a *API) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	in, err := vehicleInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.admin.UpdateVehicle(r.Context(), r.FormValue("vid"), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (a *API) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := a.admin.DeleteVehicle(r.Context(), r.FormValue("vid")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *API) handleAddUser(w http.ResponseWriter, r *http.Request) {
	id, err := a.admin.AddUser(r.Context(), contactFromForm(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": id})
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, fmt.Errorf("%w: id required", rental.ErrValidation))
		return
	}
	u, err := a.store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(*u))
}

func (a *API) handleModifyUser(w http.ResponseWriter, r *http.Request) {
	if err := a.admin.ModifyUser(r.Context(), r.FormValue("id"), contactFromForm(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"modified": true})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := a.admin.DeleteUser(r.Context(), r.FormValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func vehicleInputFromForm(r *http.Request) (rental.VehicleInput, error) {
	var in rental.VehicleInput
	in.Make = r.FormValue("make")
	in.Model = r.FormValue("model")
	in.Color = r.FormValue("color")
	in.Type = r.FormValue("type")

	if s := strings.TrimSpace(r.FormValue("year")); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("%w: invalid year %q", rental.ErrValidation, s)
		}
		in.Year = year
	}
	if s := strings.TrimSpace(r.FormValue("capacity")); s != "" {
		capacity, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("%w: invalid capacity %q", rental.ErrValidation, s)
		}
		in.Capacity = capacity
	}
	price := strings.TrimSpace(r.FormValue("price"))
	cents, err := rental.ParseCents(price)
	if err != nil {
		return in, fmt.Errorf("%w: invalid price %q", rental.ErrValidation, price)
	}
	in.DailyPriceCents = cents
	return in, nil
}

func contactFromForm(r *http.Request) user.Contact {
	return user.Contact{
		FirstName: r.FormValue("fname"),
		LastName:  r.FormValue("lname"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phoneNum"),
	}
}
