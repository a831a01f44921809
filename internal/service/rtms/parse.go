package rtms

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/pkg/errors"
)

// envelope: 실거래 응답에서 추출한 공통 형태.
// 포털은 정상/오류 모두 HTTP 200으로 내려줄 수 있으므로 내장 resultCode가 1차 판정 기준이다.
type envelope struct {
	ResultCode string
	ResultMsg  string
	TotalCount int
	Items      []rawItem
}

// rawItem: 항목 하나의 태그/키 → 값 맵.
// XML/JSON 어느 쪽에서 왔든 동일한 동의어 키 목록으로 필드를 뽑기 위한 중간 표현이다.
type rawItem map[string]string

// UnmarshalXML: item의 자식 요소들을 이름 그대로 맵에 담는다.
// 엔드포인트마다 태그 구성이 달라서(aptNm/offiNm 등) 고정 구조체 대신 맵을 쓴다.
func (it *rawItem) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m := make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			m[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				*it = m
				return nil
			}
		}
	}
}

type xmlResponse struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []rawItem `xml:"item"`
		} `xml:"items"`
		TotalCount string `xml:"totalCount"`
	} `xml:"body"`
}

// xmlServiceError: 포털이 인증 실패 등에서 내려주는 비표준 오류 봉투
// (OpenAPI_ServiceResponse/cmmMsgHeader). 표준 header 없이 이 형태만 오는 경우가 있다.
type xmlServiceError struct {
	XMLName xml.Name `xml:"OpenAPI_ServiceResponse"`
	Header  struct {
		ErrMsg        string `xml:"errMsg"`
		ReturnAuthMsg string `xml:"returnAuthMsg"`
		ReasonCode    string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

type jsonResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			TotalCount json.RawMessage `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// parseEnvelope: 응답 본문을 XML 또는 JSON으로 파싱해 공통 형태로 만든다.
func parseEnvelope(body []byte) (*envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.NewParseError("envelope", fmt.Errorf("empty response body"))
	}

	if trimmed[0] == '<' {
		return parseXMLEnvelope(trimmed)
	}
	return parseJSONEnvelope(trimmed)
}

func parseXMLEnvelope(body []byte) (*envelope, error) {
	var resp xmlResponse
	if err := xml.Unmarshal(body, &resp); err == nil {
		return &envelope{
			ResultCode: strings.TrimSpace(resp.Header.ResultCode),
			ResultMsg:  strings.TrimSpace(resp.Header.ResultMsg),
			TotalCount: tolerantInt(resp.Body.TotalCount),
			Items:      resp.Body.Items.Item,
		}, nil
	}

	var svcErr xmlServiceError
	if err := xml.Unmarshal(body, &svcErr); err == nil {
		msg := svcErr.Header.ReturnAuthMsg
		if msg == "" {
			msg = svcErr.Header.ErrMsg
		}
		return &envelope{
			ResultCode: strings.TrimSpace(svcErr.Header.ReasonCode),
			ResultMsg:  strings.TrimSpace(msg),
		}, nil
	}

	return nil, errors.NewParseError("xml", fmt.Errorf("unrecognized response envelope"))
}

func parseJSONEnvelope(body []byte) (*envelope, error) {
	var resp jsonResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewParseError("json", err)
	}

	items, err := normalizeJSONItems(resp.Response.Body.Items)
	if err != nil {
		return nil, err
	}

	return &envelope{
		ResultCode: strings.TrimSpace(resp.Response.Header.ResultCode),
		ResultMsg:  strings.TrimSpace(resp.Response.Header.ResultMsg),
		TotalCount: tolerantInt(rawToString(resp.Response.Body.TotalCount)),
		Items:      items,
	}, nil
}

// normalizeJSONItems: items.item이 부재/단일 객체/배열/빈 문자열 어느 형태로 와도 슬라이스로 정규화한다.
func normalizeJSONItems(raw json.RawMessage) ([]rawItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte(`null`)) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, errors.NewParseError("json items", err)
	}

	inner := bytes.TrimSpace(wrapper.Item)
	if len(inner) == 0 || bytes.Equal(inner, []byte(`null`)) {
		return nil, nil
	}

	switch inner[0] {
	case '[':
		var many []map[string]any
		if err := json.Unmarshal(inner, &many); err != nil {
			return nil, errors.NewParseError("json item array", err)
		}
		items := make([]rawItem, 0, len(many))
		for _, m := range many {
			items = append(items, anyMapToRawItem(m))
		}
		return items, nil
	case '{':
		var one map[string]any
		if err := json.Unmarshal(inner, &one); err != nil {
			return nil, errors.NewParseError("json item object", err)
		}
		return []rawItem{anyMapToRawItem(one)}, nil
	default:
		return nil, nil
	}
}

func anyMapToRawItem(m map[string]any) rawItem {
	item := make(rawItem, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			item[k] = strings.TrimSpace(val)
		case float64:
			item[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
			// 키는 유지하되 값은 빈 문자열
			item[k] = ""
		default:
			item[k] = fmt.Sprintf("%v", val)
		}
	}
	return item
}

func rawToString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

// 논리 필드별 동의어 키 목록. 문서화된 고정 순서로 시도한다 (리플렉션/동적 접근 금지).
var fieldSynonyms = struct {
	Name      []string
	Area      []string
	Amount    []string
	DealYear  []string
	DealMonth []string
	DealDay   []string
	Floor     []string
	Dong      []string
	Jibun     []string
	RoadName  []string
	BuildYear []string
}{
	Name:      []string{"aptNm", "offiNm", "aptName", "bldgNm"},
	Area:      []string{"excluUseAr", "excluUseArea", "area"},
	Amount:    []string{"dealAmount", "dealAmt"},
	DealYear:  []string{"dealYear"},
	DealMonth: []string{"dealMonth"},
	DealDay:   []string{"dealDay"},
	Floor:     []string{"floor"},
	Dong:      []string{"umdNm", "dong", "legalDong"},
	Jibun:     []string{"jibun"},
	RoadName:  []string{"roadNm", "roadName"},
	BuildYear: []string{"buildYear"},
}

// mapRecord: 항목 맵을 TransactionRecord로 변환한다.
// 금액/면적이 깨져 있어도 행을 버리지 않고 0 값으로 남긴다 (행 수가 totalCount와 일치해야 함).
func mapRecord(item rawItem, product domain.ProductType) domain.TransactionRecord {
	return domain.TransactionRecord{
		ComplexName:   pick(item, fieldSynonyms.Name),
		ExclusiveArea: tolerantFloat(pick(item, fieldSynonyms.Area)),
		DealAmount:    tolerantAmount(pick(item, fieldSynonyms.Amount)),
		DealYear:      tolerantInt(pick(item, fieldSynonyms.DealYear)),
		DealMonth:     tolerantInt(pick(item, fieldSynonyms.DealMonth)),
		DealDay:       tolerantInt(pick(item, fieldSynonyms.DealDay)),
		Floor:         tolerantInt(pick(item, fieldSynonyms.Floor)),
		Dong:          pick(item, fieldSynonyms.Dong),
		Jibun:         pick(item, fieldSynonyms.Jibun),
		RoadName:      pick(item, fieldSynonyms.RoadName),
		BuildYear:     tolerantInt(pick(item, fieldSynonyms.BuildYear)),
		Product:       product,
	}
}

// pick: 동의어 키 목록을 고정 순서로 시도해 첫 번째 비어있지 않은 값을 반환한다.
func pick(item rawItem, keys []string) string {
	for _, key := range keys {
		if v, ok := item[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// tolerantAmount: "135,000" 같은 콤마 구분 금액(만원)을 정수로 변환한다. 실패 시 0.
func tolerantAmount(s string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func tolerantFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func tolerantInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
