// Package events defines the typed speech event contract built from bridge
// notifications.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - speech.*
//   - speech_audio.*
//   - speech_control.*
//
// speech events
//
//   - SampleRateReported (speech.sample_rate): the engine's output rate in Hz.
//   - SentenceStarted (speech.sentence): a sentence starts at the position.
//   - WordStarted (speech.word): a word of the given length starts at the
//     position.
//   - MarkReached (speech.mark): an SSML <mark> was reached.
//   - AudioElementReached (speech.play): an SSML <audio> element was reached.
//   - ClauseEnded (speech.end): a sentence or clause ended.
//   - PhonemeSpoken (speech.phoneme): a phoneme was spoken.
//   - MessageTerminated (speech.message_terminated): all text of one Synth
//     call was spoken. Terminal for the utterance.
//
// speech_audio events
//
//   - SpeechAudioFrame (speech_audio.frame): PCM of a finished batch, linear16
//     little-endian mono at the reported sample rate.
//
// speech_control events
//
//   - SpeechStopped (speech_control.stopped): speech was stopped before the
//     utterance terminated.
//   - SpeakerSwitched (speech_control.speaker_switched): another speaker took
//     over the engine.
package events
