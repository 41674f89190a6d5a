package model

import (
	"strconv"
	"strings"
	"time"
)

// Field identifies one column of a customs declaration line by position.
//
// Source workbooks are pinned to this order: the header row of an input file
// is discarded and names are assigned strictly by column position. A file
// whose columns are shuffled is read without error and silently mislabels
// every field, so producers must keep the order below.
type Field int

const (
	TariffCode Field = iota
	TariffDescription
	CustomsOffice
	DeclarationNumber
	Date
	TaxpayerCode
	Exporter
	Importer
	GrossWeight
	NetWeight
	Qty1
	Unit1
	Qty2
	Unit2
	FOBTotal
	FOBUnit1
	FOBUnit2
	DestinationCountry
	DestinationPort
	LastPortOfEmbarkation
	TransportMode
	PortAgent
	CustomsAgent
	CommercialDescription
	Description1
	Description2
	Description3
	Description4
	Description5
	Carrier
	CargoAgentOrigin
	CargoAgentDestination
	Channel

	FieldCount int = iota
)

// Kind is the coerced type of a field.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

// Schema holds the column names in source order.
var Schema = [FieldCount]string{
	"Partida Aduanera", "Descripcion de la Partida Aduanera", "Aduana", "DUA / DAM", "Fecha",
	"Cod. Tributario", "Exportador", "Importador", "Kg Bruto", "Kg Neto",
	"Qty 1", "Und 1", "Qty 2", "Und 2", "U$ FOB Tot", "U$ FOB Und 1", "U$ FOB Und 2",
	"Pais de Destino", "Puerto de destino", "Último Puerto Embarque", "Via", "Agente Portuario",
	"Agente de Aduana", "Descripcion Comercial", "Descripcion1", "Descripcion2", "Descripcion3",
	"Descripcion4", "Descripcion5", "Naviera", "Agente Carga(Origen)", "Agente Carga(Destino)", "Canal",
}

// NumericFields are coerced to float64.
var NumericFields = []Field{GrossWeight, NetWeight, Qty1, Qty2, FOBTotal, FOBUnit1, FOBUnit2}

// CategoricalFields are the low-cardinality dimensions offered as filters.
var CategoricalFields = []Field{CustomsOffice, DestinationCountry, DestinationPort, LastPortOfEmbarkation, TransportMode, Channel}

// TrimmedFields have surrounding whitespace removed during normalization.
var TrimmedFields = []Field{TariffCode, TaxpayerCode}

// Name returns the schema column name.
func (f Field) Name() string {
	if !f.Valid() {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return Schema[f]
}

func (f Field) String() string { return f.Name() }

// Valid reports whether f is a position inside the schema.
func (f Field) Valid() bool { return f >= 0 && int(f) < FieldCount }

// Kind returns the coerced type of the field.
func (f Field) Kind() Kind {
	if f == Date {
		return KindDate
	}
	for _, n := range NumericFields {
		if n == f {
			return KindNumber
		}
	}
	return KindText
}

// FieldByName resolves a schema name (case-insensitive, surrounding spaces ignored).
func FieldByName(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for i, s := range Schema {
		if strings.EqualFold(s, name) {
			return Field(i), true
		}
	}
	return 0, false
}

// Cell is one typed value. Valid is false for absent values, which are
// distinct from zero and from the empty string.
type Cell struct {
	Text  string
	Num   float64
	Time  time.Time
	Valid bool
}

// Absent is the missing-value marker.
var Absent = Cell{}

// TextCell returns a present text value.
func TextCell(s string) Cell { return Cell{Text: s, Valid: true} }

// NumberCell returns a present numeric value.
func NumberCell(v float64) Cell { return Cell{Num: v, Valid: true} }

// DateCell returns a present date value truncated to the calendar day.
func DateCell(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// DateLayout is the rendering used for dates in exports and JSON.
const DateLayout = "2006-01-02"

// Record is one customs declaration line.
type Record struct {
	cells [FieldCount]Cell
}

// NewRecord builds a record from typed cells.
func NewRecord(cells [FieldCount]Cell) Record {
	return Record{cells: cells}
}

// Cell returns the raw cell for f.
func (r Record) Cell(f Field) Cell {
	if !f.Valid() {
		return Absent
	}
	return r.cells[f]
}

// Text returns a text field and whether it is present.
func (r Record) Text(f Field) (string, bool) {
	c := r.Cell(f)
	return c.Text, c.Valid
}

// Number returns a numeric field and whether it is present.
func (r Record) Number(f Field) (float64, bool) {
	c := r.Cell(f)
	return c.Num, c.Valid
}

// Date returns the declaration date and whether it is present.
func (r Record) Date() (time.Time, bool) {
	c := r.cells[Date]
	return c.Time, c.Valid
}

// String renders f for export. Absent values render as "".
func (r Record) String(f Field) string {
	c := r.Cell(f)
	if !c.Valid {
		return ""
	}
	switch f.Kind() {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindDate:
		return c.Time.Format(DateLayout)
	default:
		return c.Text
	}
}

// Strings renders the whole record in schema order.
func (r Record) Strings() []string {
	out := make([]string, FieldCount)
	for i := range out {
		out[i] = r.String(Field(i))
	}
	return out
}
