package domain

// SoundKind - источник звука на шине.
type SoundKind uint8

const (
	SoundTank SoundKind = iota
	SoundBullet
)

func (k SoundKind) String() string {
	switch k {
	case SoundTank:
		return "tank"
	case SoundBullet:
		return "bullet"
	default:
		return "unknown"
	}
}

// Громкость (радиус слышимости) в пикселях
const (
	LoudnessIdle   = 75.0
	LoudnessMoving = 150.0
	LoudnessShot   = 250.0
)

// SoundKey упаковывает источник и тип звука в один ключ: старшие 32 бита - ID, младшие - тип.
type SoundKey uint64

func PackSoundKey(src AgentID, kind SoundKind) SoundKey {
	return SoundKey(uint64(src)<<32 | uint64(kind))
}

func (k SoundKey) Source() AgentID { return AgentID(k >> 32) }

func (k SoundKey) Kind() SoundKind { return SoundKind(k & 0xFFFFFFFF) }
