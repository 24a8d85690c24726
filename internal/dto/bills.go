package dto

import (
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func NewCreateBillRequest(user *models.User, paymentMethod string, shipping *ShippingInfoRequest, voucherCode string, loyaltyPoints int64) *CreateBillRequest {
	return &CreateBillRequest{
		user:          user,
		paymentMethod: paymentMethod,
		shipping:      shipping,
		voucherCode:   voucherCode,
		loyaltyPoints: loyaltyPoints,
	}
}

type CreateBillRequest struct {
	user          *models.User
	paymentMethod string
	shipping      *ShippingInfoRequest
	voucherCode   string
	loyaltyPoints int64
}

func (r CreateBillRequest) GetUser() *models.User {
	return r.user
}

func (r CreateBillRequest) GetPaymentMethod() string {
	return r.paymentMethod
}

func (r CreateBillRequest) GetShipping() *ShippingInfoRequest {
	return r.shipping
}

func (r CreateBillRequest) GetVoucherCode() string  { return r.voucherCode }
func (r CreateBillRequest) GetLoyaltyPoints() int64 { return r.loyaltyPoints }

func NewShippingInfoRequest(name, phone, address, note string) *ShippingInfoRequest {
	return &ShippingInfoRequest{
		receiverName:  name,
		receiverPhone: phone,
		address:       address,
		note:          note,
	}
}

type ShippingInfoRequest struct {
	receiverName  string
	receiverPhone string
	address       string
	note          string
}

func (r *ShippingInfoRequest) ReceiverName() string {
	return r.receiverName
}

func (r *ShippingInfoRequest) ReceiverPhone() string {
	return r.receiverPhone
}

func (r *ShippingInfoRequest) Address() string { return r.address }
func (r *ShippingInfoRequest) Note() string    { return r.note }

// CreateBillResponse carries the persisted bill plus the gateway redirect for
// online payment methods. PaymentURL is empty for cash on delivery.
type CreateBillResponse struct {
	Bill       *models.Bill `json:"bill"`
	PaymentURL string       `json:"payment_url,omitempty"`
}

// BillView is a bill as presented to the storefront: the stored document plus
// the derived listing status.
type BillView struct {
	*models.Bill
	ViewStatus string `json:"view_status"`
}

func NewCancelBillRequest(billCode string, operator *models.User, reason string) *CancelBillRequest {
	return &CancelBillRequest{
		billCode: billCode,
		operator: operator,
		reason:   reason,
	}
}

type CancelBillRequest struct {
	billCode string
	operator *models.User
	reason   string
}

func (r *CancelBillRequest) GetBillCode() string {
	return r.billCode
}

func (r *CancelBillRequest) GetOperator() *models.User {
	return r.operator
}

func (r *CancelBillRequest) GetReason() string {
	return r.reason
}

func NewListBillsRequest(userID primitive.ObjectID, status, search string, page, pageSize int) *ListBillsRequest {
	return &ListBillsRequest{
		userID:   userID,
		status:   status,
		search:   search,
		page:     page,
		pageSize: pageSize,
	}
}

type ListBillsRequest struct {
	userID   primitive.ObjectID
	status   string
	search   string
	page     int
	pageSize int
}

func (r *ListBillsRequest) GetUserID() primitive.ObjectID {
	return r.userID
}

func (r *ListBillsRequest) GetStatus() string { return r.status }
func (r *ListBillsRequest) GetSearch() string { return r.search }
func (r *ListBillsRequest) GetPage() int      { return r.page }
func (r *ListBillsRequest) GetPageSize() int  { return r.pageSize }

// PaymentCallbackResult is what the callback handler reports back to the
// gateway redirect: where the bill ended up after the notification.
type PaymentCallbackResult struct {
	BillCode      string `json:"bill_code"`
	PaymentStatus string `json:"payment_status"`
	AlreadyFinal  bool   `json:"already_final"`
}
