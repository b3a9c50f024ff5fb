package arena

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

func CreateRandomSeed() rand.PCG {
	var randBytes [16]byte
	_, err := cryptoRand.Read(randBytes[:])
	if err != nil {
		// crypto/rand reads from the OS entropy pool, nothing sane to do here
		panic(err)
	}

	return *rand.NewPCG(binary.LittleEndian.Uint64(randBytes[0:8]), binary.LittleEndian.Uint64(randBytes[8:]))
}

func CreateRNG(seed *rand.PCG) *rand.Rand {
	return rand.New(seed)
}
