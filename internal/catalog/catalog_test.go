package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/five82/drova-launcher/internal/drova"
)

func boolPtr(b bool) *bool { return &b }

func readyItem(id string) drova.StationProduct {
	return drova.StationProduct{
		ProductID: id,
		Enabled:   true,
		Verified:  drova.Indicator{Set: true, Ready: true, Raw: "READY"},
	}
}

func TestBuildMetaMap_LastWriteWins(t *testing.T) {
	m := BuildMetaMap([]drova.ProductMeta{
		{ProductID: "p1", Title: "First"},
		{ProductID: "p2", Title: "Other"},
		{ProductID: "p1", Title: "Second"},
		{ProductID: "", Title: "Nameless"},
	})
	require.Len(t, m, 2)
	meta, ok := m.Lookup("p1")
	require.True(t, ok)
	require.Equal(t, "Second", meta.Title)
}

func TestFilterReady_DisabledAlwaysExcluded(t *testing.T) {
	for _, verified := range []drova.Indicator{
		{},
		{Set: true, Ready: true, Raw: "READY"},
		{Set: true, Raw: "NOT_READY"},
	} {
		item := readyItem("p1")
		item.Verified = verified
		item.Enabled = false
		require.Empty(t, FilterReady([]drova.StationProduct{item}))
	}

	missing := readyItem("p2")
	missing.Verified = drova.Indicator{}
	notReady := readyItem("p3")
	notReady.Verified = drova.Indicator{Set: true, Raw: "NOT_READY"}
	got := FilterReady([]drova.StationProduct{readyItem("p1"), missing, notReady})
	require.Len(t, got, 2)
	require.Equal(t, "p1", got[0].ProductID)
	require.Equal(t, "p2", got[1].ProductID)
}

func TestIsDesktop_ByID(t *testing.T) {
	require.True(t, IsDesktop(readyItem(DesktopProductID), nil, DesktopMatch))
}

func TestIsDesktop_TitleIsCaseInsensitiveExact(t *testing.T) {
	for _, title := range []string{"DESKTOP", "Desktop", "desktop"} {
		item := readyItem("p1")
		item.Title = title
		require.True(t, IsDesktop(item, nil, DesktopMatch), title)

		meta := drova.ProductMeta{ProductID: "p1", Title: title}
		require.True(t, IsDesktop(readyItem("p1"), &meta, DesktopMatch), title)
	}
	item := readyItem("p1")
	item.Title = "desktop2"
	require.False(t, IsDesktop(item, nil, DesktopMatch))

	item.Title = "My Desktop"
	require.False(t, IsDesktop(item, nil, DesktopMatch))
}

func TestIsDesktop_CatalogTitleShadowsStationTitle(t *testing.T) {
	item := readyItem("p1")
	item.Title = "Desktop"
	meta := drova.ProductMeta{ProductID: "p1", Title: "Metro Exodus"}
	require.False(t, IsDesktop(item, &meta, DesktopMatch))
}

func TestIsDesktop_ByDisplayName(t *testing.T) {
	for _, name := range []string{"Рабочий стол", "РАБОЧИЙ СТОЛ", "рабочий стол"} {
		meta := drova.ProductMeta{ProductID: "p1", DisplayName: name}
		require.True(t, IsDesktop(readyItem("p1"), &meta, DesktopMatch), name)
	}
	meta := drova.ProductMeta{ProductID: "p1", DisplayName: "Рабочий стол 2"}
	require.False(t, IsDesktop(readyItem("p1"), &meta, DesktopMatch))
}

func TestIsDesktop_UseDefaultDesktopDependsOnPolicy(t *testing.T) {
	item := readyItem("p1")
	item.UseDefaultDesktop = boolPtr(true)
	meta := drova.ProductMeta{ProductID: "p1", UseDefaultDesktop: boolPtr(true)}

	require.False(t, IsDesktop(item, &meta, DesktopMatch))
	require.True(t, IsDesktop(item, &meta, DesktopFlag))

	metaOnly := readyItem("p1")
	require.True(t, IsDesktop(metaOnly, &meta, DesktopFlag))

	off := drova.ProductMeta{ProductID: "p1", UseDefaultDesktop: boolPtr(false)}
	require.False(t, IsDesktop(readyItem("p1"), &off, DesktopFlag))
}

func TestBuildDesktopSet(t *testing.T) {
	desk := readyItem("p2")
	desk.Title = "Desktop"
	flagged := readyItem("p3")
	flagged.UseDefaultDesktop = boolPtr(true)
	items := []drova.StationProduct{readyItem("p1"), desk, flagged}
	metas := BuildMetaMap([]drova.ProductMeta{{ProductID: "p1", DisplayName: "Рабочий стол"}})

	set := BuildDesktopSet(items, metas, DesktopMatch)
	require.True(t, set.Contains("p1"))
	require.True(t, set.Contains("p2"))
	require.False(t, set.Contains("p3"))

	set = BuildDesktopSet(items, metas, DesktopFlag)
	require.True(t, set.Contains("p3"))
}

func TestResolveTitle_Priority(t *testing.T) {
	item := readyItem("p1")
	item.Title = "Station"
	require.Equal(t, "Shown", ResolveTitle(item, &drova.ProductMeta{DisplayName: "Shown", Title: "Catalog"}))
	require.Equal(t, "Catalog", ResolveTitle(item, &drova.ProductMeta{Title: "Catalog"}))
	require.Equal(t, "Station", ResolveTitle(item, &drova.ProductMeta{}))
	require.Equal(t, "Station", ResolveTitle(item, nil))
	require.Equal(t, DefaultTitle, ResolveTitle(readyItem("p1"), nil))
}

func TestTruncate_UnicodeSafe(t *testing.T) {
	text := "Оставьте позади руины московского метро"
	got := Truncate(text, 10)
	require.Equal(t, 10, utf8.RuneCountInString(got))
	require.True(t, strings.HasPrefix(text, got))

	require.Equal(t, text, Truncate(text, 100))
	require.Equal(t, "", Truncate(text, 0))
	require.Equal(t, "ab", Truncate("ab", 2))

	long := strings.Repeat("я🎮a", 60)
	got = Truncate(long, AltLimit)
	require.Equal(t, AltLimit, utf8.RuneCountInString(got))
	require.True(t, strings.HasPrefix(long, got))
	require.True(t, utf8.ValidString(got))
}

func TestParsePolicies(t *testing.T) {
	p, ok := ParseDesktopPolicy(" FLAG ")
	require.True(t, ok)
	require.Equal(t, DesktopFlag, p)
	_, ok = ParseDesktopPolicy("maybe")
	require.False(t, ok)

	k, ok := ParseLaunchSource("details")
	require.True(t, ok)
	require.Equal(t, SourceDetails, k)
	k, ok = ParseLaunchSource("")
	require.True(t, ok)
	require.Equal(t, SourceInline, k)
	_, ok = ParseLaunchSource("remote")
	require.False(t, ok)
}

func TestFallbackDesktopCard(t *testing.T) {
	card := FallbackDesktopCard()
	require.Equal(t, "desktop", card.ProductID)
	require.True(t, card.IsDesktop)
	require.True(t, card.IsFree)
}
