package mono

// Ручки реестра мономорфизации. Индекс 0 зарезервирован под "нет значения".
type (
	TemplateID  uint32
	ClassID     uint32
	SignatureID uint32
)

const (
	NoTemplateID  TemplateID  = 0
	NoClassID     ClassID     = 0
	NoSignatureID SignatureID = 0
)

func (id TemplateID) IsValid() bool  { return id != NoTemplateID }
func (id ClassID) IsValid() bool     { return id != NoClassID }
func (id SignatureID) IsValid() bool { return id != NoSignatureID }
