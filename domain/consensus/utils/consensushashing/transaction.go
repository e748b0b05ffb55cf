package consensushashing

import (
	"io"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/hashes"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/serialization"
)

// TransactionID generates the ID of the given transaction: the transaction
// id hash of its canonical encoding.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.TransactionID {
	writer := hashes.NewTransactionIDWriter()
	err := serializeTransaction(writer, tx)
	if err != nil {
		// this writer never returns errors and every element written has a
		// known encoding
		panic(errors.Wrap(err, "TransactionID() failed. this should never fail for structurally-valid transactions"))
	}
	id := externalapi.TransactionID(writer.Finalize())
	return &id
}

// TransactionIDs returns the IDs of the given transactions, in order.
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.TransactionID {
	ids := make([]*externalapi.TransactionID, len(txs))
	for i, tx := range txs {
		ids[i] = TransactionID(tx)
	}
	return ids
}

func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction) error {
	err := serialization.WriteElement(w, uint64(len(tx.OutputCommitments)))
	if err != nil {
		return err
	}
	for _, commitment := range tx.OutputCommitments {
		err = serialization.WriteElement(w, commitment)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElement(w, uint64(len(tx.InputSerialNumbers)))
	if err != nil {
		return err
	}
	for _, serialNumber := range tx.InputSerialNumbers {
		err = serialization.WriteElement(w, serialNumber)
		if err != nil {
			return err
		}
	}

	err = serialization.WriteElement(w, uint64(len(tx.Memo)))
	if err != nil {
		return err
	}
	_, err = w.Write(tx.Memo)
	return errors.WithStack(err)
}
