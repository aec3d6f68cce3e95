package jpk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePodmiotByIndicator(t *testing.T) {
	fiz := OsobaFizyczna{NIP: "1234567890", ImiePierwsze: "Jan", Nazwisko: "Kowalski"}
	niefiz := OsobaNiefizyczna{NIP: "1234567890", PelnaNazwa: "Kowalski Sp. z o.o."}

	p, err := ResolvePodmiot("FIZYCZNA", fiz, niefiz)
	require.NoError(t, err)
	assert.True(t, p.IsOsobaFizyczna())
	got, ok := p.Fizyczna()
	require.True(t, ok)
	assert.Equal(t, "Jan", got.ImiePierwsze)

	p, err = ResolvePodmiot("niefizyczna", fiz, niefiz)
	require.NoError(t, err)
	assert.False(t, p.IsOsobaFizyczna())
	org, ok := p.Niefizyczna()
	require.True(t, ok)
	assert.Equal(t, "Kowalski Sp. z o.o.", org.PelnaNazwa)
}

func TestResolvePodmiotIndicatorSpellings(t *testing.T) {
	fiz := OsobaFizyczna{Nazwisko: "Nowak"}
	for _, spelling := range []string{"OsobaFizyczna", "OSOBA_FIZYCZNA", " osoba fizyczna "} {
		p, err := ResolvePodmiot(spelling, fiz, OsobaNiefizyczna{})
		require.NoError(t, err, "spelling %q", spelling)
		assert.True(t, p.IsOsobaFizyczna())
	}
}

func TestResolvePodmiotIndicatorAgainstEmptyPayload(t *testing.T) {
	_, err := ResolvePodmiot("FIZYCZNA", OsobaFizyczna{}, OsobaNiefizyczna{PelnaNazwa: "Firma"})
	require.Error(t, err)
	assert.Equal(t, "map.podmiot_invalid", CodeOf(err))

	_, err = ResolvePodmiot("NIEFIZYCZNA", OsobaFizyczna{Nazwisko: "Nowak"}, OsobaNiefizyczna{})
	require.Error(t, err)
	assert.Equal(t, "map.podmiot_invalid", CodeOf(err))
}

func TestResolvePodmiotPayloadFallback(t *testing.T) {
	p, err := ResolvePodmiot("", OsobaFizyczna{}, OsobaNiefizyczna{PelnaNazwa: "Firma"})
	require.NoError(t, err)
	assert.False(t, p.IsOsobaFizyczna())

	p, err = ResolvePodmiot("", OsobaFizyczna{Nazwisko: "Nowak"}, OsobaNiefizyczna{})
	require.NoError(t, err)
	assert.True(t, p.IsOsobaFizyczna())

	// Unrecognized indicators behave like no indicator.
	p, err = ResolvePodmiot("SPOLKA", OsobaFizyczna{}, OsobaNiefizyczna{NIP: "1"})
	require.NoError(t, err)
	assert.False(t, p.IsOsobaFizyczna())
}

// NIP is shared between both payload shapes; the distinctive fields decide.
func TestResolvePodmiotSharedNIP(t *testing.T) {
	p, err := ResolvePodmiot("",
		OsobaFizyczna{NIP: "1234567890"},
		OsobaNiefizyczna{NIP: "1234567890", PelnaNazwa: "Firma Sp. z o.o."})
	require.NoError(t, err)
	assert.False(t, p.IsOsobaFizyczna(), "PelnaNazwa marks an organization")

	p, err = ResolvePodmiot("",
		OsobaFizyczna{NIP: "1234567890"},
		OsobaNiefizyczna{NIP: "1234567890"})
	require.NoError(t, err)
	assert.True(t, p.IsOsobaFizyczna(), "a NIP-only record defaults to the natural person")
}

func TestResolvePodmiotPrefersFizycznaWhenBothPopulated(t *testing.T) {
	p, err := ResolvePodmiot("",
		OsobaFizyczna{Nazwisko: "Nowak"},
		OsobaNiefizyczna{PelnaNazwa: "Firma"})
	require.NoError(t, err)
	assert.True(t, p.IsOsobaFizyczna())
}

func TestResolvePodmiotNeitherPopulated(t *testing.T) {
	_, err := ResolvePodmiot("", OsobaFizyczna{Email: "a@b.pl"}, OsobaNiefizyczna{Telefon: "123"})
	require.Error(t, err)
	assert.Equal(t, "map.podmiot_missing", CodeOf(err), "contact fields alone do not identify a filer")
}

func TestPodmiotValidate(t *testing.T) {
	var zero Podmiot
	err := zero.Validate()
	require.Error(t, err)
	assert.Equal(t, "xml.podmiot_invalid", CodeOf(err))

	p, err := ResolvePodmiot("", OsobaFizyczna{NIP: "1234567890"}, OsobaNiefizyczna{})
	require.NoError(t, err)
	assert.NoError(t, p.Validate())
}
