// Package share encodes a project's billable state into a compact string
// that can travel through a URL fragment or a chat message, and back.
//
// The payload is short-key JSON, DEFLATE-compressed and base64url-encoded,
// prefixed with a versioned marker. Fields matching their defaults are
// omitted from the payload to keep links short.
package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/mkuznecov/estima/internal/model"
)

// Prefix marks an encoded payload and carries the format version
const Prefix = "estima1:"

// ErrInvalidPayload is returned when a string is not a decodable share link
var ErrInvalidPayload = errors.New("share: invalid payload")

type sharedOption struct {
	Value                  string  `json:"v"`
	Label                  string  `json:"l,omitempty"`
	Multiplier             float64 `json:"x,omitempty"`
	DefaultRevisionPercent float64 `json:"drp,omitempty"`
}

type sharedContext struct {
	ProjectType       sharedOption `json:"pt"`
	Domain            sharedOption `json:"d"`
	Methodology       sharedOption `json:"m"`
	Client            sharedOption `json:"cl"`
	Deadline          sharedOption `json:"dl"`
	ContextMultiplier float64      `json:"cm"`
	MultiplierManual  int          `json:"cmi,omitempty"`
}

type sharedRange struct {
	Min      *float64 `json:"mn,omitempty"`
	Expected *float64 `json:"ex,omitempty"`
	Max      *float64 `json:"mx,omitempty"`
}

type sharedItem struct {
	ID               string       `json:"i"`
	ParentID         string       `json:"p,omitempty"`
	SortOrder        int          `json:"so,omitempty"`
	Name             string       `json:"n"`
	Quantity         int          `json:"q,omitempty"`
	HoursPerUnit     float64      `json:"h,omitempty"`
	Unit             string       `json:"u,omitempty"`
	Category         string       `json:"c,omitempty"`
	Role             string       `json:"r,omitempty"`
	RoleMultiplier   *float64     `json:"rm,omitempty"`
	QualityLevel     *float64     `json:"ql,omitempty"`
	NotRevisionable  int          `json:"nrv,omitempty"`
	PricingModel     string       `json:"pm,omitempty"`
	FixedPrice       *float64     `json:"fp,omitempty"`
	IsContainer      int          `json:"ic,omitempty"`
	ContainerMode    string       `json:"cmo,omitempty"`
	ContainerTotal   *float64     `json:"cft,omitempty"`
	LibraryElementID string       `json:"lid,omitempty"`
	Notes            string       `json:"nt,omitempty"`
	EffortRange      *sharedRange `json:"er,omitempty"`
	Confidence       *int         `json:"cf,omitempty"`
	Overrides        string       `json:"ov,omitempty"`
}

type sharedDiscount struct {
	Type          string  `json:"t"`
	PercentValue  float64 `json:"pv,omitempty"`
	AbsoluteValue float64 `json:"av,omitempty"`
	Comment       string  `json:"cm,omitempty"`
}

type sharedTax struct {
	Rate           float64 `json:"r"`
	ShowSeparately int     `json:"s,omitempty"`
}

type sharedVolume struct {
	Mode  string                     `json:"m"`
	Tiers []model.VolumeDiscountTier `json:"t"`
}

type sharedAdjustment struct {
	Label  string  `json:"l"`
	Amount float64 `json:"a"`
}

type sharedPricing struct {
	HourlyRate            float64            `json:"hr"`
	RevisionPercent       float64            `json:"rp"`
	RevisionPercentManual int                `json:"rpm,omitempty"`
	Discount              *sharedDiscount    `json:"dc,omitempty"`
	Tax                   *sharedTax         `json:"tx,omitempty"`
	VolumeDiscounts       *sharedVolume      `json:"vd,omitempty"`
	Adjustments           []sharedAdjustment `json:"aa,omitempty"`
}

type sharedState struct {
	Version string        `json:"v"`
	Context sharedContext `json:"ctx"`
	Items   []sharedItem  `json:"it"`
	Pricing sharedPricing `json:"pr"`
}

// SharedState is the decoded billable state of a shared estimate
type SharedState struct {
	Context model.ProjectContext
	Items   []*model.EstimateItem
	Pricing model.Pricing
}

// Encode packs the context, items and pricing into a share string
func Encode(ctx model.ProjectContext, items []*model.EstimateItem, pricing model.Pricing) (string, error) {
	state := sharedState{
		Version: "1",
		Context: minifyContext(ctx),
		Items:   make([]sharedItem, 0, len(items)),
		Pricing: minifyPricing(pricing),
	}
	for _, item := range items {
		state.Items = append(state.Items, minifyItem(item))
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("share: marshal state: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("share: init compressor: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("share: compress state: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("share: compress state: %w", err)
	}

	return Prefix + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode unpacks a share string created by Encode
func Decode(payload string) (*SharedState, error) {
	if !strings.HasPrefix(payload, Prefix) {
		return nil, ErrInvalidPayload
	}

	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(payload, Prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	raw, err := io.ReadAll(flate.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var state sharedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if state.Version == "" {
		return nil, ErrInvalidPayload
	}

	out := &SharedState{
		Context: expandContext(state.Context),
		Pricing: expandPricing(state.Pricing),
	}
	for _, m := range state.Items {
		out.Items = append(out.Items, expandItem(m))
	}

	return out, nil
}

func minifyOption(opt model.ContextOption) sharedOption {
	s := sharedOption{Value: opt.Value, Label: opt.Label}
	if opt.Multiplier != 1 {
		s.Multiplier = opt.Multiplier
	}
	return s
}

func expandOption(s sharedOption) model.ContextOption {
	opt := model.ContextOption{Value: s.Value, Label: s.Label, Multiplier: s.Multiplier}
	if opt.Multiplier == 0 {
		opt.Multiplier = 1
	}
	return opt
}

func minifyContext(ctx model.ProjectContext) sharedContext {
	s := sharedContext{
		ProjectType:       sharedOption{Value: ctx.ProjectType.Value, Label: ctx.ProjectType.Label},
		Domain:            minifyOption(ctx.Domain),
		Methodology:       minifyOption(ctx.Methodology),
		Client:            minifyOption(ctx.Client.ContextOption),
		Deadline:          minifyOption(ctx.Deadline),
		ContextMultiplier: ctx.ContextMultiplier,
	}
	s.Client.DefaultRevisionPercent = ctx.Client.DefaultRevisionPercent
	if ctx.ContextMultiplierIsManual {
		s.MultiplierManual = 1
	}
	return s
}

func expandContext(s sharedContext) model.ProjectContext {
	ctx := model.ProjectContext{
		ProjectType:               model.ProjectType{Value: s.ProjectType.Value, Label: s.ProjectType.Label},
		Domain:                    expandOption(s.Domain),
		Methodology:               expandOption(s.Methodology),
		Deadline:                  expandOption(s.Deadline),
		ContextMultiplier:         s.ContextMultiplier,
		ContextMultiplierIsManual: s.MultiplierManual == 1,
	}
	ctx.Client = model.ClientOption{
		ContextOption:          expandOption(s.Client),
		DefaultRevisionPercent: s.Client.DefaultRevisionPercent,
	}
	if ctx.ContextMultiplier == 0 {
		ctx.ContextMultiplier = 1
	}
	return ctx
}

func minifyItem(item *model.EstimateItem) sharedItem {
	s := sharedItem{
		ID:               string(item.ID),
		SortOrder:        item.SortOrder,
		Name:             item.Name,
		HoursPerUnit:     item.HoursPerUnit,
		Unit:             item.Unit,
		FixedPrice:       item.FixedPrice,
		ContainerTotal:   item.ContainerFixedTotal,
		LibraryElementID: item.LibraryElementID,
		Notes:            item.Notes,
		Confidence:       item.Confidence,
	}
	if item.ParentID != nil {
		s.ParentID = string(*item.ParentID)
	}
	if item.Quantity != 1 {
		s.Quantity = item.Quantity
	}
	if item.Category != model.CategoryContent {
		s.Category = string(item.Category)
	}
	if item.Role != model.RoleAuthor {
		s.Role = string(item.Role)
	}
	if item.RoleMultiplier != 1 {
		v := item.RoleMultiplier
		s.RoleMultiplier = &v
	}
	if item.QualityLevel != 1 {
		v := item.QualityLevel
		s.QualityLevel = &v
	}
	if !item.Revisionable {
		s.NotRevisionable = 1
	}
	if item.PricingModel != model.PricingTimeBased {
		s.PricingModel = string(item.PricingModel)
	}
	if item.IsContainer {
		s.IsContainer = 1
	}
	if item.ContainerMode != model.ContainerSumChildren {
		s.ContainerMode = string(item.ContainerMode)
	}
	if item.EffortRange != nil {
		s.EffortRange = &sharedRange{Min: item.EffortRange.Min, Expected: item.EffortRange.Expected, Max: item.EffortRange.Max}
	}
	s.Overrides = packOverrides(item.Overrides)
	return s
}

func expandItem(s sharedItem) *model.EstimateItem {
	item := &model.EstimateItem{
		ID:                  model.ItemID(s.ID),
		SortOrder:           s.SortOrder,
		Name:                s.Name,
		Quantity:            1,
		HoursPerUnit:        s.HoursPerUnit,
		Unit:                s.Unit,
		Category:            model.CategoryContent,
		Role:                model.RoleAuthor,
		RoleMultiplier:      1,
		QualityLevel:        1,
		Revisionable:        s.NotRevisionable == 0,
		PricingModel:        model.PricingTimeBased,
		FixedPrice:          s.FixedPrice,
		IsContainer:         s.IsContainer == 1,
		ContainerMode:       model.ContainerSumChildren,
		ContainerFixedTotal: s.ContainerTotal,
		Source:              model.SourceManual,
		LibraryElementID:    s.LibraryElementID,
		Notes:               s.Notes,
		Confidence:          s.Confidence,
		Overrides:           unpackOverrides(s.Overrides),
	}
	if item.ID == "" {
		item.ID = model.ItemID(uuid.New().String()[:8])
	}
	if s.ParentID != "" {
		pid := model.ItemID(s.ParentID)
		item.ParentID = &pid
	}
	if s.Quantity != 0 {
		item.Quantity = s.Quantity
	}
	if s.Category != "" {
		item.Category = model.Category(s.Category)
	}
	if s.Role != "" {
		item.Role = model.RoleType(s.Role)
	}
	if s.RoleMultiplier != nil {
		item.RoleMultiplier = *s.RoleMultiplier
	}
	if s.QualityLevel != nil {
		item.QualityLevel = *s.QualityLevel
	}
	if s.PricingModel != "" {
		item.PricingModel = model.PricingModel(s.PricingModel)
	}
	if s.ContainerMode != "" {
		item.ContainerMode = model.ContainerMode(s.ContainerMode)
	}
	if s.EffortRange != nil {
		item.EffortRange = &model.EffortRange{Min: s.EffortRange.Min, Expected: s.EffortRange.Expected, Max: s.EffortRange.Max}
	}
	return item
}

func packOverrides(ov model.ItemOverrides) string {
	var b strings.Builder
	if ov.HoursPerUnit {
		b.WriteByte('h')
	}
	if ov.QualityLevel {
		b.WriteByte('q')
	}
	if ov.RoleMultiplier {
		b.WriteByte('r')
	}
	if ov.FixedPrice {
		b.WriteByte('f')
	}
	if ov.Cost {
		b.WriteByte('c')
	}
	return b.String()
}

func unpackOverrides(s string) model.ItemOverrides {
	return model.ItemOverrides{
		HoursPerUnit:   strings.ContainsRune(s, 'h'),
		QualityLevel:   strings.ContainsRune(s, 'q'),
		RoleMultiplier: strings.ContainsRune(s, 'r'),
		FixedPrice:     strings.ContainsRune(s, 'f'),
		Cost:           strings.ContainsRune(s, 'c'),
	}
}

func minifyPricing(p model.Pricing) sharedPricing {
	s := sharedPricing{
		HourlyRate:      p.HourlyRate,
		RevisionPercent: p.RevisionPercent,
	}
	if p.RevisionPercentIsManual {
		s.RevisionPercentManual = 1
	}
	if p.Discount.Type != model.DiscountNone && p.Discount.Type != "" {
		s.Discount = &sharedDiscount{
			Type:          string(p.Discount.Type),
			PercentValue:  p.Discount.PercentValue,
			AbsoluteValue: p.Discount.AbsoluteValue,
			Comment:       p.Discount.Comment,
		}
	}
	if p.Tax.Rate > 0 {
		s.Tax = &sharedTax{Rate: p.Tax.Rate}
		if p.Tax.ShowSeparately {
			s.Tax.ShowSeparately = 1
		}
	}
	if p.VolumeDiscounts.Enabled {
		s.VolumeDiscounts = &sharedVolume{Mode: string(p.VolumeDiscounts.Mode), Tiers: p.VolumeDiscounts.Tiers}
	}
	for _, a := range p.AdditionalAdjustments {
		s.Adjustments = append(s.Adjustments, sharedAdjustment{Label: a.Label, Amount: a.Amount})
	}
	return s
}

func expandPricing(s sharedPricing) model.Pricing {
	p := model.DefaultPricing()
	p.HourlyRate = s.HourlyRate
	p.RevisionPercent = s.RevisionPercent
	p.RevisionPercentIsManual = s.RevisionPercentManual == 1

	p.Discount = model.Discount{Type: model.DiscountNone}
	if s.Discount != nil {
		p.Discount = model.Discount{
			Type:          model.DiscountType(s.Discount.Type),
			PercentValue:  s.Discount.PercentValue,
			AbsoluteValue: s.Discount.AbsoluteValue,
			Comment:       s.Discount.Comment,
		}
	}

	p.Tax = model.Tax{}
	if s.Tax != nil {
		p.Tax = model.Tax{Rate: s.Tax.Rate, ShowSeparately: s.Tax.ShowSeparately == 1}
	}

	p.VolumeDiscounts = model.VolumeDiscounts{Mode: model.VolumeByElement}
	if s.VolumeDiscounts != nil {
		p.VolumeDiscounts = model.VolumeDiscounts{
			Enabled: true,
			Mode:    model.VolumeGroupingMode(s.VolumeDiscounts.Mode),
			Tiers:   s.VolumeDiscounts.Tiers,
		}
	}

	p.AdditionalAdjustments = nil
	for i, a := range s.Adjustments {
		p.AdditionalAdjustments = append(p.AdditionalAdjustments, model.AdditionalAdjustment{
			ID:     fmt.Sprintf("adj_%d", i),
			Label:  a.Label,
			Amount: a.Amount,
		})
	}

	p.TargetPrice = model.TargetPrice{}
	p.ResourceBudget.Enabled = false

	return p
}
