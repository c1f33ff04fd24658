// Package validate はginのバインディングに使うカスタムバリデータを登録する。
package validate

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"madrasa-backend/internal/report"
)

// アルジェリアの携帯番号（05/06/07始まり10桁）
var phoneRe = regexp.MustCompile(`^(05|06|07)[0-9]{8}$`)

// Register は起動時に一度だけ呼ぶ。
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("monthyear", monthYear)
	v.RegisterValidation("dzphone", dzPhone)
}

func monthYear(fl validator.FieldLevel) bool {
	return report.ValidatePeriod(fl.Field().String()) == nil
}

func dzPhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}
