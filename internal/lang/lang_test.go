package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "What are the symptoms of influenza and how is it treated?", "en"},
		{"bengali", "ফ্লুর লক্ষণগুলো কী কী এবং এর চিকিৎসা কীভাবে করা হয়?", "bn"},
		{"hindi", "फ्लू के लक्षण क्या हैं और इसका इलाज कैसे किया जाता है?", "hi"},
		{"empty falls back to english", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bn", Normalize("bn", "whatever"))
	assert.Equal(t, "hi", Normalize("hi", ""))
	assert.Equal(t, "en", Normalize("fr", "Hello, how are you today my friend?"))
	assert.Equal(t, "hi", Normalize("", "फ्लू के लक्षण क्या हैं और इसका इलाज कैसे होता है?"))
}
