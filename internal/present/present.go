// Package present builds the display card for a looked-up document: grouped
// fields with human labels, checkpoint verdicts and the fix eligibility.
package present

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/docfix/internal/checkpoint"
	"github.com/hugo-lorenzo-mato/docfix/internal/coerce"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// Status messages shown on the card.
const (
	MsgNoRecords      = "No records were found for the given document."
	MsgMultiple       = "More than one record was found. Please refine your search."
	MsgMissingUser    = "No value found in field ESUCreated for the record."
	MsgPriceFallback  = "Prices are shown from alternative fields because Currency* fields are missing."
	StatusSubmitted   = "Submitted Successfully"
	StatusFailed      = "Submission Failed"
	unknownPaymentFmt = "Unknown Payment Method (%s)"
)

// SortColumns orders matched rows before the first one is shown.
var SortColumns = []string{"ESDCreated", "ESUCreated"}

// Field is one labelled entry of a card group.
type Field struct {
	Label  string `json:"label" yaml:"label"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Href   string `json:"href,omitempty" yaml:"href,omitempty"`
	IsLink bool   `json:"is_link,omitempty" yaml:"is_link,omitempty"`
	IsQR   bool   `json:"is_qr,omitempty" yaml:"is_qr,omitempty"`
}

// CheckpointView is a verdict labelled for display.
type CheckpointView struct {
	Label   string `json:"label" yaml:"label"`
	Pass    bool   `json:"pass" yaml:"pass"`
	Message string `json:"message" yaml:"message"`
}

// DateBadge is the day/month badge shown next to the user info.
type DateBadge struct {
	Day   string `json:"day" yaml:"day"`
	Month string `json:"month" yaml:"month"`
}

// Payment describes the payment method of the document.
type Payment struct {
	Code    string `json:"code" yaml:"code"`
	Display string `json:"display" yaml:"display"`
	Icon    string `json:"icon" yaml:"icon"`
	AuthID  string `json:"auth_id,omitempty" yaml:"auth_id,omitempty"`
}

// DisplayRecord is the card for one search. It is built once per request.
type DisplayRecord struct {
	Document      string           `json:"document" yaml:"document"`
	Found         bool             `json:"result_found" yaml:"result_found"`
	Multiple      bool             `json:"multiple" yaml:"multiple"`
	ResultCount   int              `json:"result_count" yaml:"result_count"`
	CanFix        bool             `json:"can_fix" yaml:"can_fix"`
	IDToUpdate    string           `json:"id_to_update,omitempty" yaml:"id_to_update,omitempty"`
	StatusText    string           `json:"status_text,omitempty" yaml:"status_text,omitempty"`
	Checkpoints   []CheckpointView `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	BasicInfo     []Field          `json:"basic_info,omitempty" yaml:"basic_info,omitempty"`
	UserInfo      []Field          `json:"user_info,omitempty" yaml:"user_info,omitempty"`
	UserDate      *DateBadge       `json:"user_date,omitempty" yaml:"user_date,omitempty"`
	ProviderInfo  []Field          `json:"provider_info,omitempty" yaml:"provider_info,omitempty"`
	PriceInfo     []Field          `json:"price_info,omitempty" yaml:"price_info,omitempty"`
	Payment       *Payment         `json:"payment,omitempty" yaml:"payment,omitempty"`
	QRDataURL     string           `json:"qr_data_url,omitempty" yaml:"-"`
	ShownKeys     []string         `json:"shown_keys,omitempty" yaml:"shown_keys,omitempty"`
	StatusMessage string           `json:"status_message,omitempty" yaml:"status_message,omitempty"`

	evaluation checkpoint.Evaluation
	row        record.Row
}

// Evaluation returns the checkpoint run the card was built from.
func (d *DisplayRecord) Evaluation() checkpoint.Evaluation {
	return d.evaluation
}

// Row returns the compacted first row the card shows.
func (d *DisplayRecord) Row() record.Row {
	return d.row
}

// Leftovers lists the row's columns that no card field consumed.
func (d *DisplayRecord) Leftovers() []string {
	shown := make(map[string]struct{}, len(d.ShownKeys))
	for _, k := range d.ShownKeys {
		shown[k] = struct{}{}
	}
	var out []string
	for _, name := range d.row.Names() {
		if _, ok := shown[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// AddStatus appends a line to the card's status message.
func (d *DisplayRecord) AddStatus(msg string) {
	if d.StatusMessage == "" {
		d.StatusMessage = msg
		return
	}
	d.StatusMessage += "\n" + msg
}

// Presenter builds display records.
type Presenter struct {
	engine *checkpoint.Engine
	logger *slog.Logger
}

// New creates a presenter that evaluates checkpoints with engine.
func New(engine *checkpoint.Engine, logger *slog.Logger) *Presenter {
	if engine == nil {
		engine = &checkpoint.Engine{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{engine: engine, logger: logger}
}

// Build turns a lookup result into a card for searchTerm. Only the oldest
// matching row is shown; with several matches the card stays inspectable but
// cannot be fixed.
func (p *Presenter) Build(rs *record.ResultSet, searchTerm string) *DisplayRecord {
	rec := &DisplayRecord{Document: searchTerm}
	if rs.Empty() {
		rec.StatusMessage = MsgNoRecords
		return rec
	}

	sorted := record.SortByTimestamp(rs, SortColumns)
	row := sorted.Rows[0].Compact()

	rec.row = row
	rec.Found = true
	rec.ResultCount = sorted.Len()
	if sorted.Len() != 1 {
		rec.Multiple = true
		rec.StatusMessage = MsgMultiple
	}

	eval := p.engine.Evaluate(sorted)
	rec.evaluation = eval
	for i, v := range eval.Verdicts() {
		rec.Checkpoints = append(rec.Checkpoints, CheckpointView{
			Label:   checkpointLabels[i],
			Pass:    v.Passed,
			Message: v.Message,
		})
	}
	rec.CanFix = eval.AllPass
	if eval.AllPass {
		rec.IDToUpdate = eval.ID
	} else {
		for _, cp := range rec.Checkpoints {
			if !cp.Pass && cp.Message != "" {
				rec.StatusMessage = cp.Message
				break
			}
		}
	}
	rec.StatusText, _ = coerce.Text(row.Value(checkpoint.ColumnStatusText))

	b := &builder{row: row, shown: make(map[string]struct{})}
	rec.BasicInfo = b.basicInfo(searchTerm)
	rec.UserInfo, rec.UserDate = b.userInfo(rec)
	rec.ProviderInfo, rec.QRDataURL = b.providerInfo()
	rec.PriceInfo = b.priceInfo(rec)
	rec.Payment = b.payment()
	rec.ShownKeys = b.shownKeys()

	p.logger.Debug("display record built",
		slog.String("document", searchTerm),
		slog.Int("rows", rec.ResultCount),
		slog.Bool("can_fix", rec.CanFix),
		slog.Int("leftover_columns", len(rec.Leftovers())),
	)
	return rec
}

var checkpointLabels = []string{"Checkpoint 1", "Checkpoint 2", "Checkpoint 3"}

// StatusLabel maps a status code to its human label. Unknown codes are shown
// as they are.
func StatusLabel(v any) (string, bool) {
	s, ok := coerce.Text(v)
	if !ok {
		return "", false
	}
	switch s {
	case "1", "True", "true":
		return StatusSubmitted, true
	case "0", "False", "false":
		return StatusFailed, true
	default:
		return s, true
	}
}

// builder resolves card fields from one row and records which columns it
// consumed.
type builder struct {
	row   record.Row
	shown map[string]struct{}
}

func (b *builder) use(key string) {
	if key != "" {
		b.shown[key] = struct{}{}
	}
}

func (b *builder) text(key string) string {
	s, _ := coerce.Text(b.row.Value(key))
	return s
}

// resolveFirst returns the first alias whose value is not blank.
func (b *builder) resolveFirst(keys ...string) (string, any) {
	for _, k := range keys {
		v := b.row.Value(k)
		if _, ok := coerce.Text(v); ok {
			return k, v
		}
	}
	return "", nil
}

func (b *builder) field(label, key, value string) Field {
	b.use(key)
	return Field{Label: label, Value: value, Key: key}
}

func (b *builder) shownKeys() []string {
	keys := make([]string, 0, len(b.shown))
	for k := range b.shown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *builder) basicInfo(document string) []Field {
	status, _ := StatusLabel(b.row.Value(checkpoint.ColumnStatus))
	fields := []Field{
		{Label: "Document", Value: document},
		b.field("Status", checkpoint.ColumnStatus, status),
		b.field("GID", checkpoint.ColumnID, b.text(checkpoint.ColumnID)),
	}
	if key, v := b.resolveFirst("UID", "Uid", "DocumentUID", "fDocumentUID", "ADUID"); key != "" {
		s, _ := coerce.Text(v)
		fields = append(fields, b.field("UID", key, s))
	}
	if auth := b.text("AuthenticationCode"); auth != "" {
		fields = append(fields, b.field("AuthenticationCode", "AuthenticationCode", auth))
	}
	return append(fields, b.field("MarkID", "MarkID", b.text("MarkID")))
}

var monthAbbrev = []string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

func (b *builder) userInfo(rec *DisplayRecord) ([]Field, *DateBadge) {
	user := b.text("ESUCreated")
	if user == "" {
		rec.AddStatus(MsgMissingUser)
	}
	created := b.row.Value("ESDCreated")
	date, _ := coerce.DisplayTime(created)

	var badge *DateBadge
	if t, ok := coerce.ParseTime(created); ok {
		badge = &DateBadge{Day: t.Format("02"), Month: monthAbbrev[t.Month()-1]}
	}
	return []Field{
		b.field("User", "ESUCreated", user),
		b.field("Date", "ESDCreated", date),
	}, badge
}

func (b *builder) providerInfo() ([]Field, string) {
	raw := b.text("InvoiceURL")
	link := Field{Label: "Invoice Link", Key: "InvoiceURL", IsLink: true}
	if href, ok := coerce.URL(raw); ok {
		link.Value = raw
		link.Href = href
	}
	b.use("InvoiceURL")

	qr, _ := coerce.PNGDataURL(b.row.Value("QRCode"))
	b.use("QRCode")

	return []Field{
		b.field("Provider", "ProviderName", b.text("ProviderName")),
		link,
		{Label: "QR Code", Key: "QRCode", IsQR: true},
	}, qr
}

var priceAliases = []struct {
	label   string
	aliases []string
}{
	{"Net Amount", []string{"CurrencyNetValue", "ADNetValue", "NetValue"}},
	{"VAT Amount", []string{"CurrencyVATValue", "ADVATValue", "VATValue", "VatValue"}},
	{"Total", []string{"CurrencyTotalValue", "ADTotalValue", "TotalValue"}},
}

func (b *builder) priceInfo(rec *DisplayRecord) []Field {
	fields := make([]Field, 0, len(priceAliases))
	fallback := false
	for _, p := range priceAliases {
		key, v := b.resolveFirst(p.aliases...)
		if key != "" && !strings.HasPrefix(key, "Currency") {
			fallback = true
		}
		if key == "" {
			key = p.aliases[0]
		}
		amount, _ := coerce.Number(v)
		fields = append(fields, b.field(p.label, key, amount))
	}
	if fallback {
		rec.AddStatus(MsgPriceFallback)
	}
	return fields
}
