package code

import "errors"

// lang holds the English and Chinese text of a code.
// lang 保存一个状态码的中英文文本
type lang struct {
	en    string
	zh_cn string
}

const FALLBACK_LNG = "en"

var lng = FALLBACK_LNG

var supportedLanguages = []string{"en", "zh_cn"}

// GetMessage returns the text for the active language, falling back to English.
// GetMessage 按当前语言返回文本，缺失时回退到英文
func (l lang) GetMessage() string {
	if lng == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	return append([]string{}, supportedLanguages...)
}

// SetGlobalDefaultLang switches the active language. Unknown values reset it to English.
// SetGlobalDefaultLang 设置全局语言，不支持的语言会回退到英文
func SetGlobalDefaultLang(language string) error {
	for _, l := range supportedLanguages {
		if l == language {
			lng = language
			return nil
		}
	}
	lng = FALLBACK_LNG
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

func GetGlobalDefaultLang() string {
	return lng
}
