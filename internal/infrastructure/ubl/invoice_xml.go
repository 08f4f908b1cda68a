// Package ubl construye el documento XML de una factura con vocabulario UBL 2.1 (cbc/cac)
// y lo entrega canonicalizado (C14N 1.0), de modo que la misma factura siempre produce los mismos bytes.
package ubl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/pos-admin/internal/application/billing"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	ublVersion   = "UBL 2.1"
	dateLayout   = "2006-01-02"
	currencyCode = "USD"
)

var _ appbilling.InvoiceXMLBuilder = (*InvoiceXMLBuilder)(nil)

// InvoiceXMLBuilder implementa billing.InvoiceXMLBuilder.
type InvoiceXMLBuilder struct{}

// NewInvoiceXMLBuilder crea el builder.
func NewInvoiceXMLBuilder() *InvoiceXMLBuilder { return &InvoiceXMLBuilder{} }

// BuildInvoiceXML arma el árbol con etree y devuelve su forma canónica.
func (b *InvoiceXMLBuilder) BuildInvoiceXML(issuer string, inv *entity.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("ubl: factura nil")
	}
	doc := etree.NewDocument()
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", ublVersion)
	cbc(root, "ID", inv.InvoiceNumber)
	cbc(root, "IssueDate", inv.IssueDate.UTC().Format(dateLayout))
	cbc(root, "DueDate", inv.DueDate.UTC().Format(dateLayout))
	cbc(root, "InvoiceTypeCode", "380")
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", currencyCode)
	// Estado de cobro propio de la aplicación; UBL no tiene un campo equivalente.
	cbc(root, "AccountingCost", string(inv.Status))

	supplier := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	cbc(supplier.CreateElement("cac:PartyName"), "Name", issuer)

	customer := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	cbc(customer.CreateElement("cac:PartyName"), "Name", inv.CustomerName)
	if inv.CustomerAddress != "" {
		cbc(customer.CreateElement("cac:PostalAddress"), "StreetName", inv.CustomerAddress)
	}
	cbc(customer.CreateElement("cac:Contact"), "ElectronicMail", inv.CustomerEmail)

	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "TaxAmount", inv.Tax)
	sub := taxTotal.CreateElement("cac:TaxSubtotal")
	amount(sub, "TaxableAmount", inv.Subtotal)
	amount(sub, "TaxAmount", inv.Tax)

	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	amount(monetary, "LineExtensionAmount", inv.Subtotal)
	amount(monetary, "TaxExclusiveAmount", inv.Subtotal)
	amount(monetary, "TaxInclusiveAmount", inv.Total)
	amount(monetary, "PayableAmount", inv.Total)

	for _, it := range inv.Items {
		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "ID", strconv.Itoa(it.Position))
		q := cbc(line, "InvoicedQuantity", strconv.Itoa(it.Quantity))
		q.CreateAttr("unitCode", "EA")
		amount(line, "LineExtensionAmount", it.LineTotal)
		cbc(line.CreateElement("cac:Item"), "Description", it.Description)
		amount(line.CreateElement("cac:Price"), "PriceAmount", it.UnitPrice)
	}

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar: %w", err)
	}
	return Canonicalize(raw)
}

// Canonicalize aplica C14N 1.0 (sin comentarios).
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	return out, nil
}

func cbc(parent *etree.Element, name, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + name)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, name string, v decimal.Decimal) *etree.Element {
	el := cbc(parent, name, v.StringFixed(2))
	el.CreateAttr("currencyID", currencyCode)
	return el
}
