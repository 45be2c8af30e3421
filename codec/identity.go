package codec

// Identity is the "identity" coding, it leaves data untouched.
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Encode(data []byte) ([]byte, error) { return data, nil }

func (Identity) Decode(data []byte) ([]byte, error) { return data, nil }
