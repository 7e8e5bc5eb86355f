package fixture

// EmailDomain is the domain of every generated borrower email.
const EmailDomain = "investree.id"

// FileHost serves the placeholder documents referenced by generated payloads.
const FileHost = "https://storage.investree.tech/qa"

var firstNames = []string{
	"Adi", "Budi", "Citra", "Dewi", "Eka", "Fajar", "Gita", "Hadi",
	"Indah", "Joko", "Kartika", "Lestari", "Made", "Nanda", "Oki", "Putri",
	"Rizky", "Sari", "Taufik", "Utami", "Wahyu", "Yuni", "Zainal", "Agus",
	"Bayu", "Dian", "Fitri", "Hendra", "Intan", "Rina",
}

var lastNames = []string{
	"Santoso", "Wijaya", "Saputra", "Pratama", "Hidayat", "Kusuma", "Nugroho",
	"Setiawan", "Siregar", "Harahap", "Simanjuntak", "Gunawan", "Halim",
	"Susanto", "Purnomo", "Wibowo", "Lubis", "Nasution", "Tanjung", "Rahman",
}

var companyWords = []string{
	"Maju", "Jaya", "Sentosa", "Makmur", "Abadi", "Sejahtera", "Mandiri",
	"Nusantara", "Karya", "Sinar", "Cahaya", "Mulia", "Agung", "Prima",
}

var industries = []string{
	"Perdagangan", "Konstruksi", "Manufaktur", "Jasa Keuangan", "Logistik",
	"Pertanian", "Teknologi Informasi", "Kesehatan",
}

var streets = []string{
	"Jl. Sudirman", "Jl. Thamrin", "Jl. Gatot Subroto", "Jl. Merdeka",
	"Jl. Diponegoro", "Jl. Ahmad Yani", "Jl. Pahlawan", "Jl. Veteran",
}

var cities = []struct {
	City     string
	Province string
}{
	{"Jakarta Selatan", "DKI Jakarta"},
	{"Jakarta Pusat", "DKI Jakarta"},
	{"Bandung", "Jawa Barat"},
	{"Surabaya", "Jawa Timur"},
	{"Semarang", "Jawa Tengah"},
	{"Medan", "Sumatera Utara"},
	{"Makassar", "Sulawesi Selatan"},
	{"Denpasar", "Bali"},
}

var banks = []string{"BCA", "BNI", "BRI", "Mandiri", "CIMB Niaga", "Permata"}

var religions = []string{"Islam", "Kristen", "Katolik", "Hindu", "Buddha", "Konghucu"}

var educations = []string{"SMA", "D3", "S1", "S2"}

var maritalStatuses = []string{"Belum Kawin", "Kawin"}

var relationships = []string{"Orang Tua", "Saudara Kandung", "Pasangan", "Teman"}

var positions = []string{"Direktur Utama", "Direktur", "Komisaris", "Komisaris Utama"}
