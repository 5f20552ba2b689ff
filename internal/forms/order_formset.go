package forms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spec-kit/crm-service/internal/domain"
)

// Formset field naming, shared with the templates:
//
//	form-TOTAL_FORMS, form-INITIAL_FORMS, form-MAX_NUM_FORMS
//	form-<i>-product, form-<i>-status, form-<i>-note
const (
	formsetPrefix    = "form"
	keyTotalForms    = formsetPrefix + "-TOTAL_FORMS"
	keyInitialForms  = formsetPrefix + "-INITIAL_FORMS"
	keyMaxNumForms   = formsetPrefix + "-MAX_NUM_FORMS"
	defaultExtraRows = 5
	defaultMaxRows   = 100
)

// Management mirrors the bookkeeping fields that accompany every formset
// submission. A submission whose management record is missing or
// inconsistent with the actual rows is rejected before field validation.
type Management struct {
	TotalForms   int
	InitialForms int
	MaxNumForms  int
}

// OrderFormSet validates a batch of candidate order rows that all belong to
// one customer. Rows left entirely blank are skipped; any invalid non-blank
// row invalidates the whole set.
type OrderFormSet struct {
	products ProductResolver
	customer *domain.Customer

	Management Management
	Forms      []*OrderForm
	// NonFormErrors holds errors about the submission as a whole, such as
	// broken management metadata.
	NonFormErrors []string
	bound         bool
}

// NewOrderFormSet returns an unbound formset with extra blank rows ready to
// render.
func NewOrderFormSet(products ProductResolver, customer *domain.Customer, extra int) *OrderFormSet {
	if extra <= 0 {
		extra = defaultExtraRows
	}
	fs := &OrderFormSet{
		products: products,
		customer: customer,
		Management: Management{
			TotalForms:   extra,
			InitialForms: 0,
			MaxNumForms:  defaultMaxRows,
		},
	}
	for i := 0; i < extra; i++ {
		fs.Forms = append(fs.Forms, NewOrderForm(products))
	}
	return fs
}

// Bind reads management metadata and row fields from submitted values.
// Metadata problems are recorded in NonFormErrors; row parsing still happens
// so the form can be re-rendered with what the user typed.
func (fs *OrderFormSet) Bind(values url.Values) {
	fs.bound = true
	fs.NonFormErrors = nil
	fs.Forms = nil

	total, okTotal := parseManagementInt(values, keyTotalForms)
	initial, okInitial := parseManagementInt(values, keyInitialForms)
	maxNum, okMax := parseManagementInt(values, keyMaxNumForms)
	if !okTotal || !okInitial || !okMax {
		fs.NonFormErrors = append(fs.NonFormErrors, "management form data is missing or has been tampered with")
		return
	}
	fs.Management = Management{TotalForms: total, InitialForms: initial, MaxNumForms: maxNum}

	switch {
	case total < 0 || initial < 0:
		fs.NonFormErrors = append(fs.NonFormErrors, "management form data is missing or has been tampered with")
		return
	case initial > total:
		fs.NonFormErrors = append(fs.NonFormErrors, "declared initial rows exceed the declared total")
		return
	case maxNum > 0 && total > maxNum:
		fs.NonFormErrors = append(fs.NonFormErrors, fmt.Sprintf("at most %d rows may be submitted", maxNum))
		return
	}

	if extraRowKeys(values, total) {
		fs.NonFormErrors = append(fs.NonFormErrors, "submitted rows do not match the declared total")
		return
	}

	for i := 0; i < total; i++ {
		form := NewOrderForm(fs.products)
		form.Bind(OrderFormValues{
			Product: values.Get(rowKey(i, "product")),
			Status:  values.Get(rowKey(i, "status")),
			Note:    values.Get(rowKey(i, "note")),
		})
		fs.Forms = append(fs.Forms, form)
	}
}

// Validate checks management consistency and then each non-blank row. The
// set is valid only when every check passes.
func (fs *OrderFormSet) Validate(ctx context.Context) bool {
	if !fs.bound {
		fs.NonFormErrors = append(fs.NonFormErrors, "no data submitted")
		return false
	}
	if len(fs.NonFormErrors) > 0 {
		return false
	}

	valid := true
	for _, form := range fs.Forms {
		if form.Values.IsBlank() {
			continue
		}
		if !form.Validate(ctx) {
			valid = false
		}
	}
	return valid
}

// Orders returns one new order per non-blank row, each owned by the
// formset's customer. Call only after Validate reports true.
func (fs *OrderFormSet) Orders() []*domain.Order {
	var orders []*domain.Order
	for _, form := range fs.Forms {
		if form.Values.IsBlank() {
			continue
		}
		orders = append(orders, form.Order(fs.customer.ID))
	}
	return orders
}

func rowKey(index int, field string) string {
	return fmt.Sprintf("%s-%d-%s", formsetPrefix, index, field)
}

func parseManagementInt(values url.Values, key string) (int, bool) {
	raw := values.Get(key)
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// extraRowKeys reports whether any row field was submitted past the declared
// total.
func extraRowKeys(values url.Values, total int) bool {
	for _, field := range []string{"product", "status", "note"} {
		if values.Has(rowKey(total, field)) {
			return true
		}
	}
	return false
}
