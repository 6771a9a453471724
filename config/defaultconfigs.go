package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		Colors: ConfigColors{
			BoardColor:        180,
			BoardColorAlt:     179,
			CellColor:         94,
			EatenColor:        241,
			PoisonColor:       124,
			LineColor:         94,
			CursorColorFG:     2,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			HintColorBG:       3,
		},
		Symbols: ConfigSymbols{
			Cell:       '■',
			Eaten:      '·',
			Poison:     '☠',
			Cursor:     '■',
			LastPlayed: '·',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Engine: EngineConfig{
			DefaultLevel: 10,
			PlayerFirst:  true,
			ShowHints:    false,
		},
		History: HistoryConfig{
			Record: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8088",
		},
		LogLevel: "info",
	}
}
