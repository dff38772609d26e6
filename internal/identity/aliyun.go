package identity

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const aliyunEndpoint = "https://dypnsapi.aliyuncs.com/"

// AliyunResolver calls the Aliyun phone number service's GetMobile RPC to
// turn a one-tap login token into the caller's phone number.
type AliyunResolver struct {
	accessKeyID     string
	accessKeySecret string
	client          *http.Client
}

func NewAliyunResolver(accessKeyID, accessKeySecret string) *AliyunResolver {
	return &AliyunResolver{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

type getMobileResponse struct {
	Code            string `json:"Code"`
	Message         string `json:"Message"`
	GetMobileResult struct {
		Mobile string `json:"Mobile"`
	} `json:"GetMobileResultDTO"`
}

// ResolvePhone signs and sends the GetMobile request. Any response code
// other than OK is surfaced as an error with Aliyun's message.
func (r *AliyunResolver) ResolvePhone(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", errors.New("identity: empty access token")
	}

	params := map[string]string{
		"AccessKeyId":      r.accessKeyID,
		"AccessToken":      accessToken,
		"Action":           "GetMobile",
		"Format":           "JSON",
		"SignatureMethod":  "HMAC-SHA1",
		"SignatureNonce":   nonce(),
		"SignatureVersion": "1.0",
		"Timestamp":        time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		"Version":          "2017-05-25",
	}
	params["Signature"] = r.sign(http.MethodPost, params)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, aliyunEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity: aliyun request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out getMobileResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("identity: decode aliyun response: %w", err)
	}
	if out.Code != "OK" {
		return "", fmt.Errorf("identity: aliyun GetMobile failed: %s (%s)", out.Message, out.Code)
	}
	if out.GetMobileResult.Mobile == "" {
		return "", errors.New("identity: aliyun returned no phone number")
	}

	return out.GetMobileResult.Mobile, nil
}

// sign produces the RPC-style signature: percent-encode every sorted
// key=value pair, wrap in the string-to-sign, HMAC-SHA1 with the secret
// plus "&".
func (r *AliyunResolver) sign(method string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	canonical := strings.Join(pairs, "&")
	stringToSign := method + "&" + percentEncode("/") + "&" + percentEncode(canonical)

	mac := hmac.New(sha1.New, []byte(r.accessKeySecret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode follows RFC 3986 as the signature algorithm requires:
// spaces become %20, and *, ~ and + get the treatment url.QueryEscape
// does not give them.
func percentEncode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	e = strings.ReplaceAll(e, "*", "%2A")
	e = strings.ReplaceAll(e, "%7E", "~")
	return e
}

func nonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
