package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"invoice-studio/internal/core"
)

// Memory is an in-process Store used by unit tests and offline runs.
// Records are deep-copied on the way in and out so callers never share
// mutable state with the store.
type Memory struct {
	mu         sync.Mutex
	invoices   map[string]*core.Invoice // keyed by invoice number
	customers  map[string]*core.Customer
	items      map[string]*core.Item
	nextInvID  int
	nextLineID int
}

func NewMemory() *Memory {
	return &Memory{
		invoices:  make(map[string]*core.Invoice),
		customers: make(map[string]*core.Customer),
		items:     make(map[string]*core.Item),
	}
}

// AddCustomer registers a customer master record, assigning an ID.
func (m *Memory) AddCustomer(c core.Customer) core.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = len(m.customers) + 1
	m.customers[c.Name] = &c
	return c
}

// AddItem registers an item master record, assigning an ID.
func (m *Memory) AddItem(it core.Item) core.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = len(m.items) + 1
	m.items[it.Name] = &it
	return it
}

func (m *Memory) FindInvoiceByNumber(ctx context.Context, number string) (*core.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[number]
	if !ok {
		return nil, &core.NotFoundError{Number: number}
	}
	return copyInvoice(inv), nil
}

func (m *Memory) SearchInvoices(ctx context.Context, f core.SearchFilter) ([]core.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []core.Invoice
	for _, inv := range m.invoices {
		if !matchesFilter(inv, f) {
			continue
		}
		matches = append(matches, *copyInvoice(inv))
	}
	sort.Slice(matches, func(i, j int) bool {
		return invoiceNoAfter(matches[i].InvoiceNo, matches[j].InvoiceNo)
	})
	return matches, nil
}

// invoiceNoAfter orders invoice numbers by year then numeric sequence, so
// "2026-1000" sorts after "2026-999" even though text comparison disagrees.
func invoiceNoAfter(a, b string) bool {
	ay, as, aok := splitInvoiceNo(a)
	by, bs, bok := splitInvoiceNo(b)
	if aok && bok {
		if ay != by {
			return ay > by
		}
		return as > bs
	}
	return a > b
}

func splitInvoiceNo(no string) (year, seq int, ok bool) {
	y, s, found := strings.Cut(no, "-")
	if !found {
		return 0, 0, false
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}

func matchesFilter(inv *core.Invoice, f core.SearchFilter) bool {
	if f.Customer != "" && !strings.Contains(inv.CustomerName, f.Customer) {
		return false
	}
	if f.Number != "" && inv.InvoiceNo != f.Number {
		return false
	}
	if f.Month != "" && inv.Date.Format("2006-01") != f.Month {
		return false
	}
	if f.Type != "" && inv.Type != f.Type {
		return false
	}
	date := inv.Date.Format("2006-01-02")
	if f.DateFrom != "" && date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && date > f.DateTo {
		return false
	}
	return true
}

func (m *Memory) MaxSequenceForYear(ctx context.Context, year int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	max := 0
	for no := range m.invoices {
		y, seq, ok := splitInvoiceNo(no)
		if !ok || y != year {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (m *Memory) InsertInvoice(ctx context.Context, inv *core.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.invoices[inv.InvoiceNo]; exists {
		return core.ErrDuplicateNumber
	}

	m.nextInvID++
	inv.ID = m.nextInvID
	for i := range inv.Items {
		m.nextLineID++
		inv.Items[i].ID = m.nextLineID
		inv.Items[i].InvoiceID = inv.ID
	}
	m.invoices[inv.InvoiceNo] = copyInvoice(inv)
	return nil
}

func (m *Memory) UpdateInvoice(ctx context.Context, inv *core.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.invoices[inv.InvoiceNo]; !exists {
		return &core.NotFoundError{Number: inv.InvoiceNo}
	}
	m.invoices[inv.InvoiceNo] = copyInvoice(inv)
	return nil
}

func (m *Memory) FindCustomerByName(ctx context.Context, name string) (*core.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[name]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) FindItemByName(ctx context.Context, name string) (*core.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[name]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func copyInvoice(inv *core.Invoice) *core.Invoice {
	cp := *inv
	cp.CustomerID = copyIntPtr(inv.CustomerID)
	cp.PurchaseOrderID = copyIntPtr(inv.PurchaseOrderID)
	if inv.ExtractionConfidence != nil {
		v := *inv.ExtractionConfidence
		cp.ExtractionConfidence = &v
	}
	if inv.FilePath != nil {
		v := *inv.FilePath
		cp.FilePath = &v
	}
	cp.Items = make([]core.InvoiceItem, len(inv.Items))
	for i, item := range inv.Items {
		cp.Items[i] = item
		cp.Items[i].ItemID = copyIntPtr(item.ItemID)
	}
	return &cp
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
