package importer

import (
	"testing"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"
)

func TestParseQIFBankEntry(t *testing.T) {
	data := []byte("!Type:Bank\nD1/15'24\nT-42.50\nPCoffee Shop\n^\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	txn := txns[0]
	if txn.AccountID != core.AccountBank {
		t.Fatalf("expected bank account, got %d", txn.AccountID)
	}
	if txn.Date != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %q", txn.Date)
	}
	if txn.Amount.Cents != -4250 {
		t.Fatalf("expected -4250 cents, got %d", txn.Amount.Cents)
	}
	if txn.Payee != "Coffee Shop" {
		t.Fatalf("expected Coffee Shop, got %q", txn.Payee)
	}
}

func TestParseQIFAccountTypes(t *testing.T) {
	data := []byte("!Type:CCard\nD07/18/2025\nT-100.00\nPGas Station\n^\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 1 || txns[0].AccountID != core.AccountCreditCard {
		t.Fatalf("expected credit card account, got %+v", txns)
	}
}

func TestParseQIFUnknownTypeDiscardsEntries(t *testing.T) {
	data := []byte("!Type:Invst\nD1/15'24\nT-42.50\nPBroker\n^\nD1/16'24\nT-10.00\nPBroker Again\n^\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("entries under unknown !Type: must be discarded, got %d", len(txns))
	}
}

func TestParseQIFResumesAfterRecognizedType(t *testing.T) {
	data := []byte("!Type:Invst\nD1/15'24\nT-42.50\nPBroker\n^\n!Type:Bank\nD1/16'24\nT-10.00\nPDeli\n^\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 1 || txns[0].Payee != "Deli" {
		t.Fatalf("expected only the bank entry, got %+v", txns)
	}
}

func TestParseQIFAllFields(t *testing.T) {
	data := []byte("!Type:Bank\nD1/15'24\nT-1,250.00\nN1042\nPAcme Landlord\nMJanuary rent\nA12 Main St\nASuite 4\nCX\n^\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	txn := txns[0]
	if txn.Amount.Cents != -125000 {
		t.Fatalf("commas in amount not stripped: got %d", txn.Amount.Cents)
	}
	if txn.Reference != "1042" {
		t.Fatalf("expected reference 1042, got %q", txn.Reference)
	}
	if txn.Address != "12 Main St Suite 4" {
		t.Fatalf("repeated A lines should join with a space, got %q", txn.Address)
	}
	if txn.Note != "January rent" {
		t.Fatalf("expected memo as note, got %q", txn.Note)
	}
}

func TestParseQIFUnterminatedEntryNotEmitted(t *testing.T) {
	data := []byte("!Type:Bank\nD1/15'24\nT-42.50\nPCoffee Shop\n^\nD1/16'24\nT-10.00\nPNo Terminator\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 1 || txns[0].Payee != "Coffee Shop" {
		t.Fatalf("trailing unterminated entry must not be emitted, got %+v", txns)
	}
}

func TestParseQIFUnrecognizedTagsIgnored(t *testing.T) {
	data := []byte("!Type:Bank\nD1/15'24\nT-42.50\nPCoffee Shop\nZmystery tag\n^\n")

	txns, err := testImporter().ParseQIF(data, statementOpts())
	if err != nil {
		t.Fatalf("ParseQIF failed: %v", err)
	}
	if len(txns) != 1 || txns[0].Payee != "Coffee Shop" {
		t.Fatalf("unrecognized tag should be ignored, got %+v", txns)
	}
}
