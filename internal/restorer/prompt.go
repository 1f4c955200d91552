package restorer

const restorationPrompt = `Act as an expert in digital photo restoration.
Your task is to restore this image and adapt it to the requested format.

Strict instructions:
1. Increase sharpness and overall visual quality.
2. Remove digital noise, stains and visible imperfections.
3. Improve lighting and contrast naturally.
4. IMPORTANT: Keep absolute fidelity to the original image. Do not invent objects, do not change faces, do not alter its essence.
5. Only generate the restored image.`

const notePrefix = "Additional user note: "

// BuildPrompt appends the user's note, if any, to the fixed restoration instructions.
// The note arrives already normalized by the session.
func BuildPrompt(note string) string {
	if note == "" {
		return restorationPrompt
	}
	return restorationPrompt + "\n" + notePrefix + note
}
