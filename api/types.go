// Package api holds the request and response types of the CinemoR booking
// API wire format.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinemor/booking-api/internal/domain"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// AuthRequiredResponse is returned when an anonymous user attempts a gated
// action. The pending flag tells the client the captured intent will be
// replayed after login.
type AuthRequiredResponse struct {
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
	Pending    bool   `json:"pending"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResumedAction reports which interrupted intent was completed during login
// and where the client should navigate next.
type ResumedAction struct {
	Kind       string `json:"kind"`
	RedirectTo string `json:"redirectTo"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	User    UserResponse   `json:"user"`
	Resumed *ResumedAction `json:"resumed,omitempty"`
}

type Seat struct {
	Id         string `json:"id"`
	Row        string `json:"row"`
	Number     int    `json:"number"`
	Status     string `json:"status"`
	Wheelchair bool   `json:"wheelchair"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type TicketTypeInfo struct {
	Id    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
	Count int             `json:"count"`
}

type SeatMapResponse struct {
	ShowtimeId    string           `json:"showtimeId"`
	SeatRows      []SeatRow        `json:"seatRows"`
	SelectedSeats []string         `json:"selectedSeats"`
	MaxSelection  int              `json:"maxSelection"`
	TicketTypes   []TicketTypeInfo `json:"ticketTypes"`
	TotalPrice    decimal.Decimal  `json:"totalPrice"`
	CanContinue   bool             `json:"canContinue"`
}

type TicketCountsRequest struct {
	Counts map[string]int `json:"counts" validate:"required"`
}

type UpdateBookingRequest struct {
	Movie      *MovieRef `json:"movie,omitempty"`
	Cinema     *string   `json:"cinema,omitempty"`
	Date       *string   `json:"date,omitempty"`
	Session    *string   `json:"session,omitempty"`
	ShowtimeId *string   `json:"showtimeId,omitempty"`
}

type MovieRef struct {
	Id        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	PosterUrl string `json:"posterUrl,omitempty"`
}

type BookingResponse struct {
	Movie      *MovieRef       `json:"movie,omitempty"`
	Cinema     string          `json:"cinema,omitempty"`
	Date       string          `json:"date,omitempty"`
	Session    string          `json:"session,omitempty"`
	ShowtimeId string          `json:"showtimeId,omitempty"`
	Seats      []string        `json:"seats"`
	Price      decimal.Decimal `json:"price"`
}

type CartItem struct {
	Id          string          `json:"id"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Image       string          `json:"image,omitempty"`
	MovieId     string          `json:"movieId,omitempty"`
	MovieTitle  string          `json:"movieTitle,omitempty"`
	CinemaName  string          `json:"cinemaName,omitempty"`
	ShowDate    string          `json:"showDate,omitempty"`
	ShowTime    string          `json:"showTime,omitempty"`
	ShowtimeId  string          `json:"showtimeId,omitempty"`
	Seats       []string        `json:"seats,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
}

type CartResponse struct {
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	TotalItems int             `json:"totalItems"`
}

type AddSnackRequest struct {
	Id          string          `json:"id,omitempty"`
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Quantity    int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	CardNumber     string `json:"cardNumber" validate:"required,card_number"`
	ExpiryDate     string `json:"expiryDate" validate:"required,card_expiry"`
	CVV            string `json:"cvv" validate:"required,cvv"`
	CardholderName string `json:"cardholderName" validate:"required,cardholder"`
}

type OrderItem struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	CinemaName  string          `json:"cinemaName,omitempty"`
	ShowDate    string          `json:"showDate,omitempty"`
	ShowTime    string          `json:"showTime,omitempty"`
	Seats       []string        `json:"seats,omitempty"`
}

type OrderResponse struct {
	TicketCode string          `json:"ticketCode"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type CheckoutResponse struct {
	Order       OrderResponse `json:"order"`
	VerifyToken string        `json:"verifyToken"`
	VerifyUrl   string        `json:"verifyUrl"`
}

type OrderHistoryResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type VerifyTicketResponse struct {
	Valid   bool                  `json:"valid"`
	Message string                `json:"message,omitempty"`
	Ticket  *domain.TicketDetails `json:"ticket,omitempty"`
}

type Showtime struct {
	Id         string `json:"id"`
	CinemaId   string `json:"cinemaId"`
	CinemaName string `json:"cinemaName"`
	HallName   string `json:"hallName"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	Format     string `json:"format,omitempty"`
}

type ShowtimesResponse struct {
	MovieId   string     `json:"movieId"`
	Title     string     `json:"title"`
	Showtimes []Showtime `json:"showtimes"`
}
