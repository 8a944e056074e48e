package domain

// Well-known setting keys.
const (
	SettingWhatsAppTemplate = "whatsapp_template"
	SettingLogoFilename     = "logo_filename"
)

// DefaultWhatsAppTemplate is used when no template has been configured yet.
// Placeholders are substituted by the reminder dispatcher.
const DefaultWhatsAppTemplate = "Hola [cliente], te recordamos que tu cuota de $[monto_cuota] " +
	"que vencía el [fecha_vencimiento] se encuentra pendiente. ¡Gracias!"

// Setting is a process-wide key/value configuration entry, mutable by admins.
type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}
