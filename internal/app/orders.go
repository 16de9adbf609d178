package app

import (
	"net/http"

	"github.com/cinemor/booking-api/api"
)

func (app *application) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	orders, err := app.orderRepo.ListByUser(r.Context(), user.OrderHistoryKey())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.OrderHistoryResponse{
		Orders: make([]api.OrderResponse, 0, len(orders)),
	}

	for _, order := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(order))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
