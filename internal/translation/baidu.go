package translation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// baiduAPIBase is the Baidu fanyi endpoint. Declared as a var so tests
// can substitute an httptest server.
var baiduAPIBase = "https://fanyi-api.baidu.com/api/trans/vip/translate"

// BaiduBackend translates via the Baidu fanyi API. Requests are signed
// with a salted MD5 hash over the request text.
type BaiduBackend struct {
	config     BaiduConfig
	httpClient *http.Client
}

// NewBaiduBackend creates a Baidu translation backend.
func NewBaiduBackend(config BaiduConfig) (*BaiduBackend, error) {
	if config.AppID == "" || config.AppKey == "" {
		return nil, fmt.Errorf("Baidu app ID and app key are required")
	}
	return &BaiduBackend{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name returns the backend name.
func (b *BaiduBackend) Name() string { return "baidu" }

type baiduResponse struct {
	ErrorCode   string `json:"error_code"`
	ErrorMsg    string `json:"error_msg"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

// Translate posts the text with the salted signature and joins the
// per-line results.
func (b *BaiduBackend) Translate(ctx context.Context, text, src, dst string) (string, error) {
	salt := strconv.Itoa(rand.Int())
	sign := md5.Sum([]byte(b.config.AppID + text + salt + b.config.AppKey))

	form := url.Values{}
	form.Set("q", text)
	form.Set("from", baiduLang(src))
	form.Set("to", baiduLang(dst))
	form.Set("appid", b.config.AppID)
	form.Set("salt", salt)
	form.Set("sign", hex.EncodeToString(sign[:]))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baiduAPIBase,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Baidu API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Baidu API returned HTTP %d", resp.StatusCode)
	}

	var result baiduResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parsing Baidu response: %w", err)
	}
	if result.ErrorCode != "" && result.ErrorCode != "0" {
		return "", fmt.Errorf("Baidu API error %s: %s", result.ErrorCode, result.ErrorMsg)
	}
	if len(result.TransResult) == 0 {
		return "", fmt.Errorf("no translation returned from Baidu")
	}

	lines := make([]string, 0, len(result.TransResult))
	for _, r := range result.TransResult {
		lines = append(lines, r.Dst)
	}
	return strings.Join(lines, "\n"), nil
}

// baiduLang maps common codes to Baidu's language identifiers.
func baiduLang(code string) string {
	switch strings.ToLower(code) {
	case "zh-cn", "zh-hans", "zh":
		return "zh"
	case "zh-tw", "zh-hant":
		return "cht"
	case "en", "en-us", "en-gb":
		return "en"
	case "":
		return "auto"
	default:
		return strings.ToLower(code)
	}
}
