package crc16

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateKnownString(t *testing.T) {
	assert.Equal(t, uint16(0x89ac), Calculate([]byte("123456789")))
}

func TestCalculateVectors(t *testing.T) {
	vectors := []struct {
		hexData string
		want    uint16
	}{
		{"5b108fe061377bb0844f6a469b7b2544", 0x4547},
		{"6ebe6f4b01a33686310102398daf883f", 0xf033},
		{"82121c9510a01971366a71fc46c27eff", 0x60bc},
		{"311275c4ce315456aea1a75993403be3", 0xd127},
		{"4fd3abc6b911c737c66f750f55fc4216", 0x2fba},
		{"5a63996ab77d2202f480687069ca8ffe", 0x045a},
		{"b8dbfee5a566214c0f1b39a4028d9b20", 0x4a0a},
		{"6ba116397d22b71869581742e3886867", 0x9a37},
		{"00de0fad00cc885707a2b13ce999eb1c", 0x8af4},
		{"da61c52377ca5bb717de30f44df43cb3", 0x07a0},
		{"00396c95c8733faa47ee70aeaa123942", 0x82fa},
		{"99ce4dbe8a0588c03f81a071b6df26e1", 0xde52},
		{"72f68bc19da85b9e077c46d8a190d497", 0x3429},
		{"aa6ca4918b16fac5c69c463da851edb3", 0x6e45},
		{"373610cb7d89a2c52089bb7cad7603ae", 0x05df},
		{"d47cdd4425e5e96b70f8ff0c15716433", 0xb3d7},
		{"b8337e68949d675e71e27340a18d1d2b", 0x0451},
		{"1fe2ae3bdb44afbe591d777ce9a0a352", 0x8e36},
		{"eab6d63286db5d7b5d33fa3193ec1650", 0xcd8c},
		{"14d39b146713049a646cb16e812fa04a", 0xa92c},
		{"7b7e00e55ed3ec0dc12ad60ff9d5d2cf", 0x492d},
		{"9f10125c276cdc518b4d61fe2ec7d5fa", 0x88ba},
		{"a0a5763a92b232b886f95094f50c95b4", 0x247a},
		{"1db2fa23acbf6c6bc60e6a4d8f1b6266", 0x0751},
		{"b7286f6879db13d871bc9b06aeee8932", 0xa7ba},
		{"e067284662792f25583655e547a07227", 0x2082},
		{"2615f97b172ff6b8799f88afddd1e189", 0xa92c},
		{"df70b5e237c110f452b1acc965140911", 0xfbb9},
		{"d5f91e44cb9be394e5831d3d291eee7c", 0x0af5},
		{"5e74de47e74fc901fb76e278f9abb541", 0x9209},
		{"416c54f49c8dcf093d72cc8a3aa195c9", 0x7a2e},
		{"d0593cb671d8899448f603863aca5c0b", 0xe915},
		{"a106b5858d9e5464eb01a388e4829f36", 0xff91},
		{"21705e23f29cb1465db3f410a887bf4f", 0x6524},
		{"8d39ccf4c244963a29c6dd531f8861f9", 0xa82e},
		{"8a31810b0c634ff15e5540a36b075504", 0x7765},
		{"b48ac1deffbbc515f82508408470344a", 0x0491},
		{"265d6a6e206aa888190a512a9120f2d3", 0x8435},
		{"514a168af0a8cd99145e0cab1f311707", 0x2a56},
		{"89cf0b02699b14c375b6c21fef58b572", 0x39f1},
		{"7ea6196fe85f569065957e14206d8f75", 0x7e5d},
		{"fdd1e68dcfae80ae3dad3aefbe7ef158", 0x912a},
		{"4cf3ee7c96b9d3679295b2cb93a979bf", 0x395e},
		{"b6f3691f7401ed685f23ace4f7b3b3db", 0xea51},
		{"0e86d611995e8a2ed6c4b0e0d97304a5", 0x1b39},
		{"70dc6ed45f9410813dfd1600629a6080", 0x530c},
		{"dc96ad1d88643f01df321e9a6fa43e0c", 0xc2df},
		{"ab5cc581ff755a28aa91bc1a23272630", 0xd9e7},
		{"24db03e36048be8da3b268fd7d7580f5", 0xf1de},
		{"d66c1a23d5bf97808c662a595a474125", 0xf1ad},
	}

	for _, v := range vectors {
		data, err := hex.DecodeString(v.hexData)
		require.NoError(t, err)

		got := Calculate(data)
		assert.Equalf(t, v.want, got, "CRC16 mismatch for hex data: %s", v.hexData)

		assert.True(t, Verify(data, v.want))
		assert.False(t, Verify(data, v.want+1))
	}
}

func TestVerify(t *testing.T) {
	data := []byte("123456789")
	assert.True(t, Verify(data, 0x89ac))
	assert.False(t, Verify(data, 0x89ad))
}
