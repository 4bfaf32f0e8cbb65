//revive:disable-next-line:var-naming // legacy package name used across the project
package model

// MacroIndicator is one row of the macro dashboard: a ticker with its last
// price and trailing percentage changes, tagged with its display group.
type MacroIndicator struct {
	Ticker    string  `json:"ticker"`
	LastPrice float64 `json:"last_price"`
	ChgNet1D  float64 `json:"chg_net_1d"`
	ChgPct1D  float64 `json:"chg_pct_1d"`
	ChgPct5D  float64 `json:"chg_pct_5d"`
	ChgPct1M  float64 `json:"chg_pct_1m"`
	ChgPct6M  float64 `json:"chg_pct_6m"`
	ChgPctYTD float64 `json:"chg_pct_ytd"`
	Group     string  `json:"group"`
}

// MacroSection is one rendered dashboard section: a group name with the
// indicator rows currently available for it.
type MacroSection struct {
	Name       string           `json:"name"`
	Indicators []MacroIndicator `json:"indicators"`
}

// MacroGroup names a logical dashboard section and the tickers it tracks.
type MacroGroup struct {
	Name    string
	Tickers []string
}

// MacroGroups is the fixed dashboard layout. Ordering is display order.
var MacroGroups = []MacroGroup{
	{Name: "Equities", Tickers: []string{"ESA Index", "NQA Index", "RTYA Index"}},
	{Name: "Volatility", Tickers: []string{"VIX Index", "MOVE Index"}},
	{Name: "Credit", Tickers: []string{"IG/Gen Corp", "HY/GEN SPRD Corp"}},
	{Name: "Rates", Tickers: []string{"GT2 Govt", "GT5 Govt", "GT10 Govt", "GT30 Govt"}},
	{Name: "Commodities", Tickers: []string{"CLA Comdty", "GCA Comdty"}},
	{Name: "Currencies", Tickers: []string{"DXY Curncy", "EUR Curncy", "GBP Curncy", "JPY Curncy", "BTC Curncy"}},
}
