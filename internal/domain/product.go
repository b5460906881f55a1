package domain

type Product string

const (
	ProductCredit         Product = "credito"
	ProductAccountOpening Product = "abertura-conta"
	ProductInsurance      Product = "seguro"
)

var displayNames = map[Product]string{
	ProductCredit:         "Crédito",
	ProductAccountOpening: "Abertura De Contas",
	ProductInsurance:      "Seguros",
}

// DisplayName is the human name embedded in export file names
func (p Product) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return "Produto"
}

func (p Product) String() string {
	return string(p)
}
