package fuelabi

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/hashicorp/go-multierror"
)

// DecodeByTypeID decodes data as the visible type declared with typeID,
// using the default codec.
func (g *TypeGraph) DecodeByTypeID(typeID int, data []byte) (any, error) {
	return decodeByTypeID(defaultCodec, g, typeID, data)
}

// DecodeByTypeID decodes data as the visible type declared with typeID,
// using the program's codec.
func (p *Program) DecodeByTypeID(typeID int, data []byte) (any, error) {
	return decodeByTypeID(p.codec, p.graph, typeID, data)
}

func decodeByTypeID(codec *Codec, g *TypeGraph, typeID int, data []byte) (any, error) {
	t, ok := g.Lookup(typeID)
	if !ok {
		return nil, &TypeNotFoundError{TypeID: typeID}
	}
	v, _, err := codec.Decode(t, data)
	return v, err
}

// DecodeLog decodes the payload of a log emitted under id.
func (p *Program) DecodeLog(id LogID, data []byte) (any, error) {
	t, ok := p.logs[id]
	if !ok {
		return nil, &LogTypeNotFoundError{LogID: uint64(id)}
	}
	v, _, err := p.codec.Decode(t, data)
	return v, err
}

// DecodeMessage decodes the data of a message sent under id.
func (p *Program) DecodeMessage(id LogID, data []byte) (any, error) {
	t, ok := p.messages[id]
	if !ok {
		return nil, &LogTypeNotFoundError{LogID: uint64(id)}
	}
	v, _, err := p.codec.Decode(t, data)
	return v, err
}

// LogReceipt is a log entry emitted by a contract. The JSON form matches
// the node's LogData receipt: contract id, log id and hex payload.
type LogReceipt struct {
	ContractID common.Hash   `json:"id"`
	LogID      LogID         `json:"rb"`
	Data       hexutil.Bytes `json:"data"`
}

// ReceiptDecoder decodes log receipts from any number of contracts.
// Receipts from a registered contract id use that contract's program;
// all others use the fallback, if one is set.
type ReceiptDecoder struct {
	mu       sync.RWMutex
	programs map[common.Hash]*Program
	fallback *Program
}

// NewReceiptDecoder creates a decoder. fallback may be nil.
func NewReceiptDecoder(fallback *Program) *ReceiptDecoder {
	return &ReceiptDecoder{
		programs: make(map[common.Hash]*Program),
		fallback: fallback,
	}
}

// Register associates a contract id with its program. Registering the
// same id again replaces the previous program.
func (d *ReceiptDecoder) Register(contractID common.Hash, prog *Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.programs[contractID] = prog
}

// program returns the program for a contract id.
func (d *ReceiptDecoder) program(contractID common.Hash) (*Program, error) {
	d.mu.RLock()
	prog, ok := d.programs[contractID]
	d.mu.RUnlock()
	if ok {
		return prog, nil
	}
	if d.fallback != nil {
		return d.fallback, nil
	}
	return nil, &UnknownContractError{ContractID: contractID.Hex()}
}

// Decode decodes one receipt.
func (d *ReceiptDecoder) Decode(rec LogReceipt) (any, error) {
	prog, err := d.program(rec.ContractID)
	if err != nil {
		return nil, err
	}
	return prog.DecodeLog(rec.LogID, rec.Data)
}

// DecodeLogs decodes every receipt. Receipts that fail leave a nil entry
// in the result; their errors are aggregated, each wrapped in a
// *ReceiptError carrying the receipt's index.
func (d *ReceiptDecoder) DecodeLogs(receipts []LogReceipt) ([]any, error) {
	var result *multierror.Error
	out := make([]any, len(receipts))
	for i, rec := range receipts {
		v, err := d.Decode(rec)
		if err != nil {
			result = multierror.Append(result, &ReceiptError{Index: i, Err: err})
			continue
		}
		out[i] = v
	}
	return out, result.ErrorOrNil()
}
