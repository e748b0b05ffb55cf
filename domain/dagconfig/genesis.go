// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"github.com/snarkpow/snarkpowd/domain/consensus/model/externalapi"
)

// testnetGenesisTransaction is the coinbase transaction of the genesis header
// of the test network.
var testnetGenesisTransaction = &externalapi.DomainTransaction{
	OutputCommitments: []externalapi.Commitment{{
		0x4a, 0x1e, 0x6b, 0x8f, 0x2c, 0x93, 0x05, 0xd7,
		0x61, 0xbe, 0x3a, 0x70, 0x9f, 0x14, 0xc8, 0x2d,
		0x55, 0xe0, 0x87, 0x3b, 0xa9, 0x0c, 0x6e, 0xf2,
		0x18, 0x7d, 0xc4, 0x39, 0x92, 0x5b, 0x0e, 0xa6,
	}},
	InputSerialNumbers: []externalapi.SerialNumber{{
		0x9c, 0x27, 0xf5, 0x41, 0x0b, 0xd8, 0x63, 0x3e,
		0xa2, 0x7f, 0x16, 0xc9, 0x58, 0x04, 0xeb, 0x91,
		0x3d, 0x6a, 0xb7, 0x20, 0xfe, 0x85, 0x12, 0x4c,
		0xd3, 0x69, 0x07, 0xba, 0x2e, 0x74, 0xc1, 0x5f,
	}},
	Memo: []byte("snarkpowd-testnet"),
}

// simnetGenesisTransaction is the coinbase transaction of the genesis header
// of the simulation test network.
var simnetGenesisTransaction = &externalapi.DomainTransaction{
	OutputCommitments: []externalapi.Commitment{{
		0x12, 0xa8, 0x5d, 0xe3, 0x70, 0x0f, 0xc6, 0x3b,
		0x84, 0x29, 0xf1, 0x5e, 0xb0, 0x67, 0x1d, 0x92,
		0xcd, 0x38, 0x6f, 0x04, 0xa5, 0xe9, 0x53, 0x7a,
		0x2f, 0xbc, 0x91, 0x46, 0x0d, 0xd2, 0x68, 0x3c,
	}},
	InputSerialNumbers: []externalapi.SerialNumber{{
		0x7e, 0x03, 0xb9, 0x64, 0xd1, 0x2a, 0x8f, 0x45,
		0x36, 0xec, 0x19, 0xa7, 0x50, 0xc3, 0x0b, 0x88,
		0xf6, 0x21, 0x9d, 0x4e, 0x73, 0xba, 0x05, 0xe8,
		0x5c, 0x97, 0x2b, 0xd0, 0x41, 0x1f, 0xa3, 0x6d,
	}},
	Memo: []byte("snarkpowd-simnet"),
}

// devnetGenesisTransaction is the coinbase transaction of the genesis header
// of the development network.
var devnetGenesisTransaction = &externalapi.DomainTransaction{
	OutputCommitments: []externalapi.Commitment{{
		0xe5, 0x3c, 0x90, 0x17, 0x6a, 0xd4, 0x2b, 0x81,
		0x0f, 0xa6, 0x5d, 0xc2, 0x39, 0x7e, 0xb4, 0x08,
		0x63, 0x9a, 0x21, 0xfd, 0x4c, 0x05, 0xb8, 0x76,
		0xd9, 0x14, 0xe7, 0x5a, 0x83, 0x30, 0xcf, 0x2e,
	}},
	InputSerialNumbers: []externalapi.SerialNumber{{
		0x31, 0xf8, 0x4d, 0xa0, 0xc7, 0x5e, 0x12, 0x9b,
		0x66, 0x0d, 0xe2, 0x38, 0xab, 0x74, 0xc1, 0x5f,
		0x92, 0x2e, 0x07, 0xbd, 0x48, 0xe5, 0x1a, 0x63,
		0xfc, 0x80, 0x39, 0xd6, 0x0b, 0x57, 0xae, 0x24,
	}},
	Memo: []byte("snarkpowd-devnet"),
}
