package loadeq

import "github.com/PeterZhouSZ/Equalizer/internal/model"

// Compound is the read/write view the equalizer holds of one node of the
// external compound configuration tree. Internal (non-leaf) compounds only
// need Children/IsRunning/Usage; leaf compounds additionally need
// Channel/TaskID and are the target of SetViewport/SetRange.
//
// Compound is supplied entirely by the surrounding framework; loadeq never
// constructs one.
type Compound = model.Compound

// Channel is one rendering resource (e.g. a GPU output) with a fixed pixel
// viewport and a listener registry the equalizer uses to receive its own
// per-leaf notifications.
type Channel = model.Channel
