package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/models"

	"go.uber.org/zap"
)

var (
	ErrInvalidSignature = errors.New("gateway signature verification failed")
	ErrMissingTxnRef    = errors.New("gateway notification is missing the transaction reference")
)

const (
	vnpVersion    = "2.1.0"
	vnpCommandPay = "pay"

	// ResponseCodeSuccess is the gateway's code for a settled payment.
	ResponseCodeSuccess = "00"

	// Failure codes the shopper can recover from by paying again.
	ResponseCodeDeadlineExpired   = "11"
	ResponseCodeCustomerCancelled = "24"
	ResponseCodeInsufficientFunds = "51"
	ResponseCodeBankMaintenance   = "75"

	dateLayout = "20060102150405"
)

var retriableFailureCodes = map[string]struct{}{
	ResponseCodeDeadlineExpired:   {},
	ResponseCodeCustomerCancelled: {},
	ResponseCodeInsufficientFunds: {},
	ResponseCodeBankMaintenance:   {},
}

// CallbackData is a verified gateway notification.
type CallbackData struct {
	BillCode      string
	Amount        int64
	ResponseCode  string
	TransactionNo string
	BankCode      string
	PayDate       time.Time
}

// Succeeded reports whether the notification settles the payment.
func (d *CallbackData) Succeeded() bool {
	return d.ResponseCode == ResponseCodeSuccess
}

// Retriable reports whether a failed notification leaves the shopper able to
// pay again. Abandoned checkouts, empty accounts and bank outages are
// retriable; anything else is final.
func (d *CallbackData) Retriable() bool {
	_, ok := retriableFailureCodes[d.ResponseCode]
	return ok
}

// TxnStatus is the gateway-side state of a transaction as reported by the
// query endpoint.
type TxnStatus struct {
	BillCode      string `json:"vnp_TxnRef"`
	ResponseCode  string `json:"vnp_ResponseCode"`
	TransactionNo string `json:"vnp_TransactionNo"`
	Amount        int64  `json:"vnp_Amount"`
}

// Settled reports whether the gateway holds a successful payment for the
// transaction. The sweeper checks this before cancelling an expired bill.
func (s *TxnStatus) Settled() bool {
	return s.ResponseCode == ResponseCodeSuccess
}

// PaymentGateway builds redirect URLs, verifies asynchronous notifications
// and queries transaction state at the payment provider.
type PaymentGateway interface {
	BuildPaymentURL(bill *models.Bill, clientIP string, now time.Time) (string, error)
	ParseCallback(query url.Values) (*CallbackData, error)
	QueryTransaction(ctx context.Context, billCode string, createdAt time.Time) (*TxnStatus, error)
}

func NewVNPayGateway(cfg *conf.GatewayConfig, logger *zap.Logger) *VNPayGateway {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VNPayGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("VNPayGateway"),
	}
}

// VNPayGateway implements PaymentGateway against a VNPay-compatible provider.
// Every outbound message is signed with HMAC-SHA512 over the sorted,
// url-encoded parameters.
type VNPayGateway struct {
	cfg    *conf.GatewayConfig
	client *http.Client
	logger *zap.Logger
}

var _ PaymentGateway = (*VNPayGateway)(nil)

// BuildPaymentURL signs a redirect URL for the bill. The amount is sent in
// minor units (VND x100) as the provider requires; the expire date closes the
// gateway side of the payment window.
func (g *VNPayGateway) BuildPaymentURL(bill *models.Bill, clientIP string, now time.Time) (string, error) {
	if bill.Total <= 0 {
		return "", fmt.Errorf("bill %s has non-positive total %d", bill.BillCode, bill.Total)
	}

	params := url.Values{}
	params.Set("vnp_Version", vnpVersion)
	params.Set("vnp_Command", vnpCommandPay)
	params.Set("vnp_TmnCode", g.cfg.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(bill.Total*100, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", bill.BillCode)
	params.Set("vnp_OrderInfo", "Thanh toan don hang "+bill.BillCode)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_ReturnUrl", g.cfg.ReturnURL)
	params.Set("vnp_CreateDate", now.Format(dateLayout))
	params.Set("vnp_ExpireDate", now.Add(24*time.Hour).Format(dateLayout))

	signed := g.sign(params)
	params.Set("vnp_SecureHash", signed)

	return g.cfg.PayURL + "?" + params.Encode(), nil
}

// ParseCallback verifies the signature of a gateway notification and decodes
// it. An unverifiable notification is rejected outright; nothing downstream
// may trust unsigned data.
func (g *VNPayGateway) ParseCallback(query url.Values) (*CallbackData, error) {
	received := query.Get("vnp_SecureHash")
	if received == "" {
		return nil, ErrInvalidSignature
	}

	params := url.Values{}
	for key, values := range query {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range values {
			params.Add(key, v)
		}
	}

	expected := g.sign(params)
	if !hmac.Equal([]byte(received), []byte(expected)) {
		g.logger.Warn("ParseCallback: signature mismatch", zap.String("txnRef", query.Get("vnp_TxnRef")))
		return nil, ErrInvalidSignature
	}

	billCode := params.Get("vnp_TxnRef")
	if billCode == "" {
		return nil, ErrMissingTxnRef
	}

	data := &CallbackData{
		BillCode:      billCode,
		ResponseCode:  params.Get("vnp_ResponseCode"),
		TransactionNo: params.Get("vnp_TransactionNo"),
		BankCode:      params.Get("vnp_BankCode"),
	}

	if raw := params.Get("vnp_Amount"); raw != "" {
		minor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q in notification: %w", raw, err)
		}
		data.Amount = minor / 100
	}

	if raw := params.Get("vnp_PayDate"); raw != "" {
		payDate, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid pay date %q in notification: %w", raw, err)
		}
		data.PayDate = payDate
	}

	return data, nil
}

// QueryTransaction asks the provider for the state of a transaction. The
// request shares the client's bounded timeout, so a hung provider cannot
// stall the caller past the deadline.
func (g *VNPayGateway) QueryTransaction(ctx context.Context, billCode string, createdAt time.Time) (*TxnStatus, error) {
	reqBody := map[string]string{
		"vnp_Version":         vnpVersion,
		"vnp_Command":         "querydr",
		"vnp_TmnCode":         g.cfg.TmnCode,
		"vnp_TxnRef":          billCode,
		"vnp_TransactionDate": createdAt.Format(dateLayout),
		"vnp_CreateDate":      time.Now().Format(dateLayout),
		"vnp_IpAddr":          "127.0.0.1",
		"vnp_OrderInfo":       "Truy van giao dich " + billCode,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal query request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.QueryURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("QueryTransaction: request failed", zap.Error(err), zap.String("billCode", billCode))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway query returned status %d", resp.StatusCode)
	}

	var status TxnStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		g.logger.Error("QueryTransaction: decode failed", zap.Error(err), zap.String("billCode", billCode))
		return nil, err
	}
	status.Amount /= 100

	return &status, nil
}

// sign computes the HMAC-SHA512 hex digest over the sorted url-encoded
// parameters, the provider's canonical signing form.
func (g *VNPayGateway) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(params.Get(key)))
	}

	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write(buf.Bytes())
	return hex.EncodeToString(mac.Sum(nil))
}
