package translator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ข้อความทั้งหมดของระบบ credit ลงทะเบียนไว้ใน catalog เดียว
// key เป็นข้อความภาษาอังกฤษ และใช้เป็นค่า fallback ไปในตัว
func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	entries := []struct {
		tag language.Tag
		key string
		msg string
	}{
		{language.English, "Customer", "Customer"},
		{language.English, "Administrator", "Administrator"},
		{language.English, "Order canceled", "Order canceled"},
		{language.English, "Expiration %d months", "Expiration %d months"},
		{language.English, "You can't use both coupon and credit", "You can't use both coupon and credit"},

		{language.French, "Customer", "Client"},
		{language.French, "Administrator", "Administrateur"},
		{language.French, "Order canceled", "Commande annulée"},
		{language.French, "Expiration %d months", "Expiration %d mois"},
		{language.French, "You can't use both coupon and credit", "Vous ne pouvez pas cumuler un coupon et votre crédit"},
	}

	for _, e := range entries {
		if err := b.SetString(e.tag, e.key, e.msg); err != nil {
			panic(err)
		}
	}

	return b
}

type Translator struct {
	printer *message.Printer
}

func New(tag language.Tag) *Translator {
	return &Translator{
		printer: message.NewPrinter(tag, message.Catalog(newCatalog())),
	}
}

// Trans คืนข้อความตามภาษาที่เลือก ถ้าไม่พบใน catalog จะ fallback เป็นภาษาอังกฤษ
func (t *Translator) Trans(key message.Reference, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
